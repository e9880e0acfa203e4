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

// Package audit records scan verdicts to an append-only JSONL trail.
//
// Every scan performed by Preflight, whether from the CLI or the HTTP
// API, can be written as one Event line. The trail answers "what did we
// scan, under which tier, and what did we find" after the fact, without
// keeping the scanned manifests around.
package audit

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/peg/preflight/internal/scanner"
)

// Event is one recorded scan verdict.
type Event struct {
	// ID is a ULID, time-ordered and lexicographically sortable.
	ID string `json:"id"`

	// Timestamp is when the scan ran (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Source names where the scan request came from: "cli", "api", or
	// "watch".
	Source string `json:"source"`

	// Manifest is the manifest path or name, when one was involved.
	Manifest string `json:"manifest,omitempty"`

	// Tier is the enforcement tier key the scan ran under.
	Tier string `json:"tier"`

	// Severity is the overall verdict.
	Severity string `json:"severity"`

	// CommandCount is how many raw commands were scanned.
	CommandCount int `json:"command_count"`

	DangerousCommands     []string `json:"dangerous_commands,omitempty"`
	SuspiciousCommands    []string `json:"suspicious_commands,omitempty"`
	BlockedCommands       []string `json:"blocked_commands,omitempty"`
	ObfuscationTechniques []string `json:"obfuscation_techniques,omitempty"`

	// GrammarParsingFailed records that at least one command fell back
	// to text-only matching.
	GrammarParsingFailed bool `json:"grammar_parsing_failed,omitempty"`
}

// NewEvent builds an Event from a scan result. ID and Timestamp are
// filled by the sink on write when left empty.
func NewEvent(source, manifestName string, commandCount int, res *scanner.Result) Event {
	return Event{
		Source:                source,
		Manifest:              manifestName,
		Tier:                  res.Tier,
		Severity:              res.Severity.String(),
		CommandCount:          commandCount,
		DangerousCommands:     res.DangerousCommands,
		SuspiciousCommands:    res.SuspiciousCommands,
		BlockedCommands:       res.BlockedCommands,
		ObfuscationTechniques: res.ObfuscationTechniques,
		GrammarParsingFailed:  res.GrammarParsingFailed,
	}
}

// NewEventID returns a new ULID event identifier.
func NewEventID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), rand.Reader)
	if err == nil {
		return id.String()
	}

	slog.Error("audit: generate event id", "error", err)
	return ulid.Make().String()
}
