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
	"regexp"
	"strings"
)

// ObfuscationReport is the outcome of the obfuscation heuristics for one
// raw command string. All matching techniques are collected, not just the
// first.
type ObfuscationReport struct {
	Obfuscated bool     `json:"obfuscated"`
	Techniques []string `json:"techniques,omitempty"`
}

// obfuscationChecks are the bypass-technique heuristics. Each check is
// independent; any positive match contributes its label.
var obfuscationChecks = []struct {
	Label string
	Regex *regexp.Regexp
}{
	{
		// r"m" or wg'et': quotes splitting a single token.
		Label: "quote splitting",
		Regex: regexp.MustCompile(`[a-zA-Z]("{1,2}|'{1,2})[a-zA-Z]`),
	},
	{
		Label: "IFS variable bypass",
		Regex: regexp.MustCompile(`\$\{?IFS\}?`),
	},
	{
		// {a,b} as a word list, not ${...} parameter syntax.
		Label: "brace expansion",
		Regex: regexp.MustCompile(`(^|[^$])\{[^{}\s]*,[^{}\s]*\}`),
	},
	{
		Label: "hex/octal escape sequences",
		Regex: regexp.MustCompile(`\\x[0-9a-fA-F]{2}|\\0[0-7]{2,3}|\\u[0-9a-fA-F]{4}`),
	},
	{
		Label: "base64 piped decode",
		Regex: regexp.MustCompile(`\bbase64\b[^|]*\||\|\s*base64\s+(-d|-D|--decode)`),
	},
	{
		// ${var//x/y}, ${var:0:2}, ${var#pre}, ${var%suf}
		Label: "parameter substring manipulation",
		Regex: regexp.MustCompile(`\$\{[^}]+(//|:[0-9]|#|%)[^}]*\}`),
	},
	{
		// w${}ho, w$()ho, w$@ho: empty expansions splitting a word.
		Label: "empty variable insertion",
		Regex: regexp.MustCompile(`\w(\$\(\)|\$\{\}|\$@)|(\$\(\)|\$\{\}|\$@)\w`),
	},
	{
		Label: "output reversal",
		Regex: regexp.MustCompile(`\|\s*rev\b`),
	},
}

// wildcardPath matches a glob-style ? inside a path segment, the
// /???/??t trick. URL query strings share the shape, so tokens that
// contain :// are excluded in code below.
var wildcardPath = regexp.MustCompile(`/[^/\s]*\?[^/\s]*(/|$)`)

// backslashSplit matches a backslash before a plain letter. Legitimate
// escape sequences (\n, \t, \r, \x.., \0..) are excluded in code below
// since a single regex cannot express the carve-outs readably.
var backslashSplit = regexp.MustCompile(`\\[a-zA-Z]`)

var legitimateEscapes = map[byte]bool{
	'n': true, 't': true, 'r': true, 'a': true, 'b': true,
	'f': true, 'v': true, 'e': true, 'x': true, 'u': true,
}

// DetectObfuscation runs every heuristic against the raw command text.
func DetectObfuscation(raw string) ObfuscationReport {
	var report ObfuscationReport
	for _, check := range obfuscationChecks {
		if check.Regex.MatchString(raw) {
			report.Techniques = append(report.Techniques, check.Label)
		}
	}
	if hasWildcardPathObfuscation(raw) {
		report.Techniques = append(report.Techniques, "wildcard path obfuscation")
	}
	if hasBackslashSplitting(raw) {
		report.Techniques = append(report.Techniques, "backslash character splitting")
	}
	report.Obfuscated = len(report.Techniques) > 0
	return report
}

// hasWildcardPathObfuscation reports glob wildcards hiding a path,
// ignoring URLs where a ? starts an ordinary query string.
func hasWildcardPathObfuscation(raw string) bool {
	for _, token := range strings.Fields(raw) {
		if strings.Contains(token, "://") {
			continue
		}
		if wildcardPath.MatchString(token) {
			return true
		}
	}
	return false
}

// hasBackslashSplitting reports backslashes used to split ordinary
// characters (r\m → rm) rather than to form escape sequences.
func hasBackslashSplitting(raw string) bool {
	for _, loc := range backslashSplit.FindAllStringIndex(raw, -1) {
		escaped := raw[loc[0]+1]
		if !legitimateEscapes[escaped] {
			return true
		}
	}
	return false
}
