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

import "fmt"

// Tier keys for the three built-in enforcement presets.
const (
	TierStrict     = "strict"
	TierStandard   = "standard"
	TierPermissive = "permissive"
)

// Tier is a named bundle of enforcement settings. Tiers are strictly
// nested: every category a stricter tier allows, every looser tier
// allows too.
type Tier struct {
	// Key uniquely identifies the tier ("strict", "standard", "permissive").
	Key string

	// AllowedCategories is the set of command categories this tier permits.
	AllowedCategories map[Category]bool

	// RequiresGrammarValidation mandates shell-grammar parsing and
	// per-command classification before a manifest can pass.
	RequiresGrammarValidation bool

	// BlocksObfuscation mandates the obfuscation heuristics.
	BlocksObfuscation bool

	// Warning is user-facing caution text shown when the tier is selected.
	// Empty for the default tier.
	Warning string
}

// Allows reports whether the tier permits a category.
func (t Tier) Allows(c Category) bool {
	return t.AllowedCategories[c]
}

// UnknownTierError is returned when a tier key does not name a built-in
// tier. Callers must treat this as a hard input error; the scanner never
// substitutes a default for a bad key.
type UnknownTierError struct {
	Key string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("scanner: unknown enforcement tier %q", e.Key)
}

var builtinTiers = []Tier{
	{
		Key: TierStrict,
		AllowedCategories: map[Category]bool{
			CategorySafe:       true,
			CategoryFilesystem: true,
		},
		RequiresGrammarValidation: true,
		BlocksObfuscation:         true,
	},
	{
		Key: TierStandard,
		AllowedCategories: map[Category]bool{
			CategorySafe:            true,
			CategoryFilesystem:      true,
			CategoryNetwork:         true,
			CategoryPackageManagers: true,
		},
		RequiresGrammarValidation: true,
		BlocksObfuscation:         true,
		Warning:                   "Network and package-manager commands will run without per-command review.",
	},
	{
		Key: TierPermissive,
		AllowedCategories: map[Category]bool{
			CategorySafe:            true,
			CategoryFilesystem:      true,
			CategoryNetwork:         true,
			CategoryPackageManagers: true,
			CategorySystem:          true,
		},
		RequiresGrammarValidation: false,
		BlocksObfuscation:         false,
		Warning:                   "Grammar validation and obfuscation blocking are disabled. Only use this tier for manifests you wrote yourself.",
	},
}

// DefaultTier returns the strictest tier, used when the caller has no
// persisted preference.
func DefaultTier() Tier {
	return builtinTiers[0]
}

// Tiers returns the built-in tiers ordered strictest first.
func Tiers() []Tier {
	out := make([]Tier, len(builtinTiers))
	copy(out, builtinTiers)
	return out
}

// TierByKey looks up a built-in tier. An unrecognized key is a hard
// error, never a silent fallback to a looser preset.
func TierByKey(key string) (Tier, error) {
	for _, t := range builtinTiers {
		if t.Key == key {
			return t, nil
		}
	}
	return Tier{}, &UnknownTierError{Key: key}
}
