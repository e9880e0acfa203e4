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

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/peg/preflight/internal/manifest"
	"github.com/peg/preflight/internal/scanner"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func severityMeta(sev scanner.Severity) (icon string, color lipgloss.Color) {
	switch sev {
	case scanner.SeverityNone:
		return "\u2705", lipgloss.Color("10")
	case scanner.SeverityLow:
		return "\U0001f535", lipgloss.Color("14")
	case scanner.SeverityMedium:
		return "\U0001f7e1", lipgloss.Color("11")
	case scanner.SeverityHigh:
		return "\U0001f7e0", lipgloss.Color("208")
	default:
		return "\U0001f534", lipgloss.Color("9")
	}
}

func renderResult(w io.Writer, m *manifest.Manifest, tier scanner.Tier, res *scanner.Result) {
	name := m.Name
	if name == "" {
		name = "(unnamed manifest)"
	}
	icon, color := severityMeta(res.Severity)
	sevStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(name), dimStyle.Render("tier: "+tier.Key))
	if tier.Warning != "" {
		fmt.Fprintf(w, "%s\n", dimStyle.Render(tier.Warning))
	}
	fmt.Fprintf(w, "%s severity: %s\n", icon, sevStyle.Render(res.Severity.String()))

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warningStyle.Render("!"), warning)
	}

	renderList(w, "dangerous", res.DangerousCommands)
	renderList(w, "suspicious", res.SuspiciousCommands)
	renderList(w, "obfuscated", res.ObfuscatedCommands)
	renderList(w, "blocked", res.BlockedCommands)
	renderList(w, "unknown", res.UnknownCommands)

	if res.GrammarParsingFailed {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("some commands could not be parsed; signature checks ran on raw text"))
	}
	for _, rec := range res.Recommendations {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(">"), rec)
	}
}

func renderList(w io.Writer, label string, commands []string) {
	if len(commands) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, cmd := range commands {
		fmt.Fprintf(w, "    - %s\n", truncateCommand(cmd, 100))
	}
}

func truncateCommand(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "\u2026"
}
