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

// Package scan is the public entry point for embedding Preflight in
// other Go programs.
//
// The simplest use is a one-shot scan of command strings:
//
//	res, err := scan.Commands([]string{"echo hi", "rm -rf /"}, scan.TierStandard)
//	if err != nil {
//		// unknown tier key
//	}
//	if res.Severity >= scan.SeverityHigh {
//		// refuse the install
//	}
//
// Manifest files are scanned with ScanManifest, which extracts the
// declared commands first.
package scan

import (
	"log/slog"

	"github.com/peg/preflight/internal/manifest"
	"github.com/peg/preflight/internal/scanner"
)

// Tier keys accepted by Commands and Manifest.
const (
	TierStrict     = scanner.TierStrict
	TierStandard   = scanner.TierStandard
	TierPermissive = scanner.TierPermissive
)

// Severity levels, ordered.
const (
	SeverityNone     = scanner.SeverityNone
	SeverityLow      = scanner.SeverityLow
	SeverityMedium   = scanner.SeverityMedium
	SeverityHigh     = scanner.SeverityHigh
	SeverityCritical = scanner.SeverityCritical
)

// Result is the aggregate scan verdict.
type Result = scanner.Result

// ParsedCommand is one sub-command recovered by grammar validation.
type ParsedCommand = scanner.ParsedCommand

// Severity is the overall risk rating of a scan.
type Severity = scanner.Severity

// UnknownTierError is returned for a tier key that names no built-in
// enforcement tier.
type UnknownTierError = scanner.UnknownTierError

// Commands scans raw command strings under the named enforcement tier.
func Commands(commands []string, tierKey string) (*Result, error) {
	return scanner.New(slog.Default()).ScanWithTierKey(commands, tierKey)
}

// Manifest loads a manifest file, extracts its declared commands, and
// scans them under the named enforcement tier.
func Manifest(path, tierKey string) (*Result, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return Commands(m.Commands(), tierKey)
}

// ExtractCommands collects the command strings declared under "commands"
// and "post-install" keys of an already-decoded manifest document.
func ExtractCommands(doc any) []string {
	return manifest.ExtractCommands(doc)
}
