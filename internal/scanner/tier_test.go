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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierByKey(t *testing.T) {
	for _, key := range []string{TierStrict, TierStandard, TierPermissive} {
		tier, err := TierByKey(key)
		require.NoError(t, err)
		assert.Equal(t, key, tier.Key)
	}
}

func TestTierByKeyUnknown(t *testing.T) {
	_, err := TierByKey("paranoid")
	require.Error(t, err)

	var unknownErr *UnknownTierError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "paranoid", unknownErr.Key)

	// No default substitution for a bad key, including the empty one.
	_, err = TierByKey("")
	assert.Error(t, err)
}

func TestDefaultTierIsStrict(t *testing.T) {
	assert.Equal(t, TierStrict, DefaultTier().Key)
}

// Each tier's allow set must be a strict superset of the tier before it,
// so loosening enforcement can only ever permit more.
func TestTiersAreNested(t *testing.T) {
	tiers := Tiers()
	require.Equal(t, []string{TierStrict, TierStandard, TierPermissive},
		[]string{tiers[0].Key, tiers[1].Key, tiers[2].Key})

	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		for cat := range prev.AllowedCategories {
			assert.True(t, cur.Allows(cat),
				"tier %s must allow everything %s allows", cur.Key, prev.Key)
		}
		assert.Greater(t, len(cur.AllowedCategories), len(prev.AllowedCategories),
			"tier %s must allow more than %s", cur.Key, prev.Key)
	}
}

func TestTierFlags(t *testing.T) {
	strict, err := TierByKey(TierStrict)
	require.NoError(t, err)
	assert.True(t, strict.RequiresGrammarValidation)
	assert.True(t, strict.BlocksObfuscation)
	assert.Empty(t, strict.Warning)

	standard, err := TierByKey(TierStandard)
	require.NoError(t, err)
	assert.True(t, standard.RequiresGrammarValidation)
	assert.True(t, standard.BlocksObfuscation)
	assert.NotEmpty(t, standard.Warning)

	permissive, err := TierByKey(TierPermissive)
	require.NoError(t, err)
	assert.False(t, permissive.RequiresGrammarValidation)
	assert.False(t, permissive.BlocksObfuscation)
	assert.NotEmpty(t, permissive.Warning)
}

func TestParseTierYAML(t *testing.T) {
	tier, err := ParseTierYAML([]byte(`
key: custom
allowed_categories:
  - safe
  - filesystem
requires_grammar_validation: true
blocks_obfuscation: true
warning: handle with care
`))
	require.NoError(t, err)
	assert.Equal(t, "custom", tier.Key)
	assert.True(t, tier.Allows(CategorySafe))
	assert.True(t, tier.Allows(CategoryFilesystem))
	assert.False(t, tier.Allows(CategoryNetwork))
	assert.True(t, tier.RequiresGrammarValidation)
	assert.Equal(t, "handle with care", tier.Warning)
}

func TestParseTierYAMLRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing key", yaml: "allowed_categories: [safe]"},
		{name: "no categories", yaml: "key: empty"},
		{name: "unknown category", yaml: "key: bad\nallowed_categories: [safe, sketchy]"},
		{name: "malformed yaml", yaml: "key: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTierYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
