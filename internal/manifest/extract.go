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

package manifest

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// commandKeys are the mapping keys whose subtrees hold install commands.
var commandKeys = map[string]bool{
	"commands":     true,
	"post-install": true,
}

// ExtractCommands walks an already-decoded document and collects every
// string nested under a command key, at any depth. It accepts a
// *yaml.Node (preserving document order), or plain decoded values:
// map[string]any, []any, and strings. Plain maps have no stable
// iteration order, so their keys are visited sorted.
func ExtractCommands(doc any) []string {
	switch d := doc.(type) {
	case *yaml.Node:
		return extractNode(d, false)
	default:
		return extractValue(d, false)
	}
}

func extractNode(n *yaml.Node, collecting bool) []string {
	if n == nil {
		return nil
	}

	var out []string
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			out = append(out, extractNode(child, collecting)...)
		}

	case yaml.MappingNode:
		// Content alternates key, value.
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			inside := collecting || commandKeys[strings.ToLower(key.Value)]
			out = append(out, extractNode(value, inside)...)
		}

	case yaml.SequenceNode:
		for _, child := range n.Content {
			out = append(out, extractNode(child, collecting)...)
		}

	case yaml.ScalarNode:
		if collecting && n.Tag == "!!str" && strings.TrimSpace(n.Value) != "" {
			out = append(out, n.Value)
		}

	case yaml.AliasNode:
		out = append(out, extractNode(n.Alias, collecting)...)
	}
	return out
}

func extractValue(v any, collecting bool) []string {
	var out []string
	switch d := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			inside := collecting || commandKeys[strings.ToLower(k)]
			out = append(out, extractValue(d[k], inside)...)
		}

	case []any:
		for _, item := range d {
			out = append(out, extractValue(item, collecting)...)
		}

	case string:
		if collecting && strings.TrimSpace(d) != "" {
			out = append(out, d)
		}
	}
	return out
}
