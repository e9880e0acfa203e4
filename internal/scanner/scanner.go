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

// Package scanner implements Preflight's pre-execution security scanner.
//
// The scanner takes a batch of shell-command strings extracted from an
// install manifest and an enforcement tier, and classifies the batch
// without executing anything: which commands are allowed, which are
// blocked, which look obfuscated, and one overall severity rating.
//
// Scanning is a pure computation over its inputs. The only shared data
// are the classification table and signature lists, which are constants
// for the process lifetime, so a single Scanner may be used from any
// number of goroutines.
package scanner

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Scanner runs batches of commands through grammar validation, signature
// matching, and obfuscation heuristics.
type Scanner struct {
	logger *slog.Logger
}

// New creates a Scanner. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Result is the aggregate verdict over one batch of raw command strings.
// It serializes to JSON for transport to the presentation layer.
type Result struct {
	HasDangerousContent  bool `json:"has_dangerous_content"`
	HasSuspiciousContent bool `json:"has_suspicious_content"`
	HasObfuscation       bool `json:"has_obfuscation"`

	// DangerousCommands, SuspiciousCommands, and ObfuscatedCommands list
	// the raw strings that triggered each flag, deduplicated, first-seen
	// order.
	DangerousCommands  []string `json:"dangerous_commands,omitempty"`
	SuspiciousCommands []string `json:"suspicious_commands,omitempty"`
	ObfuscatedCommands []string `json:"obfuscated_commands,omitempty"`

	// ObfuscationTechniques aggregates every technique label seen across
	// the batch.
	ObfuscationTechniques []string `json:"obfuscation_techniques,omitempty"`

	// Warnings are human-readable, ordered most severe first.
	Warnings []string `json:"warnings,omitempty"`

	Severity Severity `json:"severity"`

	// ParsedCommands is the flattened list of sub-commands across all
	// successfully parsed command lines.
	ParsedCommands []ParsedCommand `json:"parsed_commands,omitempty"`

	// BlockedCommands are command names disallowed by the active tier.
	BlockedCommands []string `json:"blocked_commands,omitempty"`

	// UnknownCommands are command names with no category match.
	UnknownCommands []string `json:"unknown_commands,omitempty"`

	// Tier is the key of the enforcement tier used for this scan.
	Tier string `json:"tier"`

	// GrammarParsingFailed is true when at least one command line could
	// not be parsed and fell back to text-only signature matching.
	GrammarParsingFailed bool `json:"grammar_parsing_failed,omitempty"`

	Recommendations []string `json:"recommendations,omitempty"`
}

// Scan classifies a batch of raw command strings under an enforcement
// tier. Inputs are read-only and the Result is built fresh per call;
// identical inputs always produce structurally identical output.
func (s *Scanner) Scan(commands []string, tier Tier) *Result {
	start := time.Now()
	res := &Result{Tier: tier.Key}

	blocked := newOrderedSet()
	unknown := newOrderedSet()
	dangerous := newOrderedSet()
	suspicious := newOrderedSet()
	obfuscated := newOrderedSet()
	techniques := newOrderedSet()

	for _, raw := range commands {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if tier.RequiresGrammarValidation {
			parsed := ParseCommandLine(raw)
			if parsed.Success {
				res.ParsedCommands = append(res.ParsedCommands, parsed.Commands...)
				for _, pc := range parsed.Commands {
					s.classifyAgainstTier(pc.Command, tier, blocked, unknown)
				}
			} else {
				// Could not validate: fall back to text-only signatures
				// for this command. Never a pass, never a block by itself.
				res.GrammarParsingFailed = true
				s.logger.Debug("scanner: grammar parse failed, using text-only fallback",
					"command", raw,
					"error", parsed.Err,
				)
			}
		}

		if tier.BlocksObfuscation {
			report := DetectObfuscation(raw)
			if report.Obfuscated {
				res.HasObfuscation = true
				obfuscated.add(raw)
				for _, technique := range report.Techniques {
					techniques.add(technique)
				}
			}
		}

		if _, hit := MatchDangerous(raw); hit {
			res.HasDangerousContent = true
			dangerous.add(raw)
			continue // dangerous supersedes suspicious
		}
		if s.suspiciousCheckApplies(raw, tier) {
			if _, hit := MatchSuspicious(raw); hit {
				res.HasSuspiciousContent = true
				suspicious.add(raw)
			}
		}
	}

	res.BlockedCommands = blocked.values
	res.UnknownCommands = unknown.values
	res.DangerousCommands = dangerous.values
	res.SuspiciousCommands = suspicious.values
	res.ObfuscatedCommands = obfuscated.values
	res.ObfuscationTechniques = techniques.values

	res.Warnings = buildWarnings(res)
	res.Recommendations = buildRecommendations(res, tier)
	res.Severity = computeSeverity(severitySignals{
		dangerous:  res.HasDangerousContent,
		suspicious: res.HasSuspiciousContent,
		obfuscated: res.HasObfuscation,
		blocked:    len(res.BlockedCommands) > 0,
		unknown:    len(res.UnknownCommands) > 0,
	})

	s.logger.Info("scanner: scan complete",
		"commands", len(commands),
		"tier", tier.Key,
		"severity", res.Severity,
		"dangerous", len(res.DangerousCommands),
		"suspicious", len(res.SuspiciousCommands),
		"blocked", len(res.BlockedCommands),
		"obfuscated", len(res.ObfuscatedCommands),
		"duration", time.Since(start),
	)

	return res
}

// ScanWithTierKey resolves a tier key and scans. An unrecognized key is
// a hard error; the scanner never substitutes a default tier for a bad
// key.
func (s *Scanner) ScanWithTierKey(commands []string, tierKey string) (*Result, error) {
	tier, err := TierByKey(tierKey)
	if err != nil {
		return nil, err
	}
	return s.Scan(commands, tier), nil
}

// classifyAgainstTier accumulates blocked/unknown names for one parsed
// sub-command. Unknown names are both unknown and blocked (fail closed).
func (s *Scanner) classifyAgainstTier(name string, tier Tier, blocked, unknown *orderedSet) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	cat, known := Classify(name)
	if !known {
		unknown.add(name)
		blocked.add(name)
		return
	}
	if !tier.Allows(cat) {
		blocked.add(name)
	}
}

// suspiciousCheckApplies implements the suspicious-pattern short-circuit.
//
// Under the strict tier the check always runs: an allowed first token can
// still carry malicious intent. Under looser tiers, a command whose first
// token is explicitly allowed by the tier skips the check to reduce noise
// for trusted flows. The boundary is preserved as-is; it is a policy
// choice, not a derivation.
func (s *Scanner) suspiciousCheckApplies(raw string, tier Tier) bool {
	if tier.Key == TierStrict {
		return true
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return true
	}
	cat, known := Classify(fields[0])
	if known && tier.Allows(cat) {
		return false
	}
	return true
}

// buildWarnings orders warnings most severe first: obfuscation, then
// dangerous, then suspicious, then blocked.
func buildWarnings(res *Result) []string {
	var warnings []string
	if res.HasObfuscation {
		warnings = append(warnings, fmt.Sprintf(
			"%d command(s) use obfuscation techniques (%s) that disguise their intent",
			len(res.ObfuscatedCommands), strings.Join(res.ObfuscationTechniques, ", ")))
	}
	if res.HasDangerousContent {
		warnings = append(warnings, fmt.Sprintf(
			"%d command(s) match known destructive or remote-execution signatures",
			len(res.DangerousCommands)))
	}
	if res.HasSuspiciousContent && !res.HasDangerousContent {
		warnings = append(warnings, fmt.Sprintf(
			"%d command(s) match suspicious signatures and should be reviewed",
			len(res.SuspiciousCommands)))
	}
	if len(res.BlockedCommands) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d command(s) are not permitted under the %s tier: %s",
			len(res.BlockedCommands), res.Tier, strings.Join(res.BlockedCommands, ", ")))
	}
	return warnings
}

func buildRecommendations(res *Result, tier Tier) []string {
	var recs []string
	if len(res.BlockedCommands) > 0 && tier.Key != TierPermissive {
		recs = append(recs, fmt.Sprintf(
			"Review the blocked commands; if you trust this manifest, a looser tier than %q would permit more categories.",
			tier.Key))
	}
	if len(res.UnknownCommands) > 0 && tier.Key == TierStrict {
		recs = append(recs, "Unknown commands are rejected under the strict tier; verify them manually before installing.")
	}
	return recs
}

// orderedSet deduplicates while preserving first-seen order.
type orderedSet struct {
	seen   map[string]bool
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}
