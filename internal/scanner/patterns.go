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

import "regexp"

// Signature is one regex rule matched against raw command text.
// Signatures work on the raw string, not the parsed form: obfuscated or
// malformed shell that defeats the grammar parser must still be catchable.
type Signature struct {
	// Regex is the compiled pattern.
	Regex *regexp.Regexp

	// Description explains the match in user-facing warnings.
	Description string
}

// dangerousSignatures flag a command as dangerous on first match;
// evaluation stops at the first hit.
var dangerousSignatures = []Signature{
	{
		Regex:       regexp.MustCompile(`(?i)\brm\s+(-[a-z-]+\s+)*(/|~|\$HOME)(\s|$|/\*)`),
		Description: "recursive or forced deletion of root or home directory",
	},
	{
		Regex:       regexp.MustCompile(`(?i)\brm\s+(-[a-z-]+\s+)*/(bin|boot|dev|etc|home|lib|proc|root|sbin|sys|usr|var)\b`),
		Description: "deletion of a system directory",
	},
	{
		Regex:       regexp.MustCompile(`\bdd\s+[^|;&]*of=/dev/`),
		Description: "raw write to a disk device",
	},
	{
		Regex:       regexp.MustCompile(`>\s*/dev/(sd|hd|nvme|disk)`),
		Description: "output redirected onto a disk device",
	},
	{
		Regex:       regexp.MustCompile(`\bmkfs(\.[a-z0-9]+)?\b`),
		Description: "filesystem format",
	},
	{
		Regex:       regexp.MustCompile(`\b(curl|wget)\b[^|;&]*\|\s*(sudo\s+)?(bash|sh|zsh|dash|ksh|python3?|perl|ruby|node)\b`),
		Description: "remote script piped into an interpreter",
	},
	{
		Regex:       regexp.MustCompile("\\$\\([^)]*\\)|`[^`]*`"),
		Description: "command substitution",
	},
	{
		Regex:       regexp.MustCompile(`\bbase64\s+(-d|-D|--decode)\b|\bxxd\s+-r\b`),
		Description: "encoded payload decode",
	},
	{
		Regex:       regexp.MustCompile(`\b(nc|ncat|netcat)\b[^|;&]*(-l|-e|\s-\w*[le])|/dev/tcp/`),
		Description: "network listener or relay primitive",
	},
	{
		Regex:       regexp.MustCompile(`\bchmod\s+([ug]\+s|[24][0-7]{3})\b|\bchown\s+(-[a-zA-Z]+\s+)*root\b`),
		Description: "setuid/setgid or root-ownership change",
	},
	{
		Regex:       regexp.MustCompile(`>>?\s*(/etc/|/usr/s?bin/|/s?bin/|~?/\.ssh/|~/\.(bashrc|bash_profile|zshrc|profile)\b)`),
		Description: "write into a system directory or shell startup file",
	},
	{
		Regex:       regexp.MustCompile(`\bcrontab\b|/etc/cron|\blaunchctl\s+(load|bootstrap)\b|\bat\s+\d`),
		Description: "scheduled-task manipulation",
	},
	{
		Regex:       regexp.MustCompile(`[\w:]+\s*\(\s*\)\s*\{[^}]*\|[^}]*&`),
		Description: "fork bomb",
	},
	{
		Regex:       regexp.MustCompile(`(^|[;&|]\s*)(eval|exec)\b`),
		Description: "bare eval/exec",
	},
	{
		Regex:       regexp.MustCompile(`\b(python3?|perl|ruby|node|php)\s+-[ce]\s`),
		Description: "single-line interpreter invocation",
	},
}

// suspiciousSignatures flag risky-but-plausibly-legitimate shapes.
// A command already flagged dangerous is never checked against these.
var suspiciousSignatures = []Signature{
	{
		Regex:       regexp.MustCompile(`(^|[;&|(\s])sudo\s`),
		Description: "elevated privileges via sudo",
	},
	{
		Regex:       regexp.MustCompile(`\b(curl|wget)\s`),
		Description: "outbound download",
	},
	{
		Regex:       regexp.MustCompile(`\bgit\s+clone\b`),
		Description: "repository clone",
	},
	{
		Regex:       regexp.MustCompile(`\b(npm|pnpm|yarn|pip3?|gem|cargo|brew|apt(-get)?|dnf|yum|pacman|apk)\s+(install|add)\b`),
		Description: "package install outside the managed pipeline",
	},
	{
		Regex:       regexp.MustCompile(`(^|[;&|]\s*)(export|alias|unalias|setenv)\s`),
		Description: "environment or alias mutation",
	},
	{
		Regex:       regexp.MustCompile(`(^|[;&|]\s*)(source|\.)\s+\S`),
		Description: "script sourcing",
	},
}

// MatchDangerous returns the first dangerous signature matching the raw
// command text.
func MatchDangerous(raw string) (Signature, bool) {
	for _, sig := range dangerousSignatures {
		if sig.Regex.MatchString(raw) {
			return sig, true
		}
	}
	return Signature{}, false
}

// MatchSuspicious returns the first suspicious signature matching the raw
// command text. Callers must check MatchDangerous first; dangerous
// supersedes suspicious.
func MatchSuspicious(raw string) (Signature, bool) {
	for _, sig := range suspiciousSignatures {
		if sig.Regex.MatchString(raw) {
			return sig, true
		}
	}
	return Signature{}, false
}

// SignatureCounts reports the sizes of the two signature lists, exposed
// for the metrics gauge.
func SignatureCounts() (dangerous, suspicious int) {
	return len(dangerousSignatures), len(suspiciousSignatures)
}
