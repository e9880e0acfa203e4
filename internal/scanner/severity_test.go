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

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSeverity(t *testing.T) {
	tests := []struct {
		name string
		sig  severitySignals
		want Severity
	}{
		{name: "dangerous and obfuscated", sig: severitySignals{dangerous: true, obfuscated: true}, want: SeverityCritical},
		{name: "dangerous only", sig: severitySignals{dangerous: true}, want: SeverityHigh},
		{name: "dangerous beats suspicious", sig: severitySignals{dangerous: true, suspicious: true}, want: SeverityHigh},
		{name: "obfuscated only", sig: severitySignals{obfuscated: true}, want: SeverityHigh},
		{name: "obfuscated beats suspicious", sig: severitySignals{obfuscated: true, suspicious: true}, want: SeverityHigh},
		{name: "suspicious only", sig: severitySignals{suspicious: true}, want: SeverityMedium},
		{name: "suspicious beats blocked", sig: severitySignals{suspicious: true, blocked: true}, want: SeverityMedium},
		{name: "blocked only", sig: severitySignals{blocked: true}, want: SeverityLow},
		{name: "unknown only", sig: severitySignals{unknown: true}, want: SeverityLow},
		{name: "nothing", sig: severitySignals{}, want: SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeSeverity(tt.sig))
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityNone < SeverityLow)
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityMedium < SeverityHigh)
	assert.True(t, SeverityHigh < SeverityCritical)
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, `"high"`, string(data))

	var sev Severity
	require.NoError(t, json.Unmarshal([]byte(`"critical"`), &sev))
	assert.Equal(t, SeverityCritical, sev)

	assert.Error(t, json.Unmarshal([]byte(`"apocalyptic"`), &sev))
}

func TestParseSeverity(t *testing.T) {
	for _, sev := range []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		parsed, err := ParseSeverity(sev.String())
		require.NoError(t, err)
		assert.Equal(t, sev, parsed)
	}
}
