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
	"fmt"

	"gopkg.in/yaml.v3"
)

// tierSpec is the YAML shape of one enforcement tier definition.
type tierSpec struct {
	Key                       string   `yaml:"key"`
	AllowedCategories         []string `yaml:"allowed_categories"`
	RequiresGrammarValidation bool     `yaml:"requires_grammar_validation"`
	BlocksObfuscation         bool     `yaml:"blocks_obfuscation"`
	Warning                   string   `yaml:"warning"`
}

// ParseTierYAML decodes one tier definition from YAML. Unknown category
// names are a hard error; a tier that silently dropped a category would
// enforce less than its file claims.
func ParseTierYAML(data []byte) (Tier, error) {
	var spec tierSpec
	dec := yaml.Unmarshal(data, &spec)
	if dec != nil {
		return Tier{}, fmt.Errorf("scanner: parse tier: %w", dec)
	}
	if spec.Key == "" {
		return Tier{}, fmt.Errorf("scanner: parse tier: missing key")
	}
	if len(spec.AllowedCategories) == 0 {
		return Tier{}, fmt.Errorf("scanner: parse tier %q: no allowed categories", spec.Key)
	}

	allowed := make(map[Category]bool, len(spec.AllowedCategories))
	for _, name := range spec.AllowedCategories {
		cat, err := ParseCategory(name)
		if err != nil {
			return Tier{}, fmt.Errorf("scanner: parse tier %q: %w", spec.Key, err)
		}
		allowed[cat] = true
	}

	return Tier{
		Key:                       spec.Key,
		AllowedCategories:         allowed,
		RequiresGrammarValidation: spec.RequiresGrammarValidation,
		BlocksObfuscation:         spec.BlocksObfuscation,
		Warning:                   spec.Warning,
	}, nil
}
