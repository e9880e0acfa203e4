// Copyright 2026 The Preflight Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scanner

import "fmt"

// Severity is the ordinal overall risk rating for one scan.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the severity's wire name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON serializes the severity as its wire name so results are
// readable by the presentation layer without an enum mapping.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a wire name back into a Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(string(trimQuotes(data)))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a wire name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "none":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityNone, fmt.Errorf("scanner: unknown severity %q", name)
	}
}

func trimQuotes(b []byte) []byte {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}

// severitySignals are the aggregate detection flags feeding the severity
// decision table.
type severitySignals struct {
	dangerous  bool
	suspicious bool
	obfuscated bool
	blocked    bool
	unknown    bool
}

// computeSeverity is the deterministic decision table; rules evaluate in
// priority order and the first match wins.
func computeSeverity(sig severitySignals) Severity {
	switch {
	case sig.dangerous && sig.obfuscated:
		return SeverityCritical
	case sig.dangerous:
		return SeverityHigh
	case sig.obfuscated:
		return SeverityHigh
	case sig.suspicious:
		return SeverityMedium
	case sig.blocked || sig.unknown:
		return SeverityLow
	default:
		return SeverityNone
	}
}
