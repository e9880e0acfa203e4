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

package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peg/preflight/internal/scanner"
)

// The embedded YAML and the compiled tier defaults must describe the
// same policy, or the documentation lies about what is enforced.
func TestEmbeddedTiersMatchCompiled(t *testing.T) {
	for _, name := range TierNames {
		t.Run(name, func(t *testing.T) {
			data, err := Tier(name)
			require.NoError(t, err)

			fromYAML, err := scanner.ParseTierYAML(data)
			require.NoError(t, err)

			compiled, err := scanner.TierByKey(name)
			require.NoError(t, err)

			assert.Equal(t, compiled.Key, fromYAML.Key)
			assert.Equal(t, compiled.AllowedCategories, fromYAML.AllowedCategories)
			assert.Equal(t, compiled.RequiresGrammarValidation, fromYAML.RequiresGrammarValidation)
			assert.Equal(t, compiled.BlocksObfuscation, fromYAML.BlocksObfuscation)
			assert.Equal(t, compiled.Warning, fromYAML.Warning)
		})
	}
}

func TestTierUnknown(t *testing.T) {
	_, err := Tier("paranoid")
	assert.Error(t, err)
}
