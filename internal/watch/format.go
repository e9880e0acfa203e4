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

package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/peg/preflight/internal/audit"
)

const maxManifestWidth = 40

func severityMeta(severity string) (icon string, color lipgloss.Color) {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "none":
		return "✅", lipgloss.Color("10")
	case "low":
		return "\U0001f535", lipgloss.Color("14")
	case "medium":
		return "\U0001f7e1", lipgloss.Color("11")
	case "high":
		return "\U0001f7e0", lipgloss.Color("208")
	case "critical":
		return "\U0001f534", lipgloss.Color("9")
	default:
		return "•", lipgloss.Color("7")
	}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func formatEventLine(event audit.Event) string {
	icon, color := severityMeta(event.Severity)
	sevStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	timePart := event.Timestamp.Local().Format("15:04:05")
	manifestPart := truncateRunes(strings.TrimSpace(event.Manifest), maxManifestWidth)
	if manifestPart == "" {
		manifestPart = "-"
	}

	var findings []string
	if n := len(event.DangerousCommands); n > 0 {
		findings = append(findings, fmt.Sprintf("%d dangerous", n))
	}
	if n := len(event.SuspiciousCommands); n > 0 {
		findings = append(findings, fmt.Sprintf("%d suspicious", n))
	}
	if n := len(event.BlockedCommands); n > 0 {
		findings = append(findings, fmt.Sprintf("%d blocked", n))
	}
	if n := len(event.ObfuscationTechniques); n > 0 {
		findings = append(findings, fmt.Sprintf("%d obfuscation", n))
	}
	findingsPart := strings.Join(findings, ", ")
	if findingsPart == "" {
		findingsPart = "clean"
	}

	return fmt.Sprintf("%s %s %-8s %-10s %-6s %s  %s",
		timePart, icon, sevStyle.Render(event.Severity),
		event.Tier, event.Source, manifestPart, findingsPart)
}
