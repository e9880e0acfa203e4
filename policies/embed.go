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

// Package policies embeds the enforcement tier YAML definitions.
//
// The YAML files are the documentation-of-record for what each tier
// permits; the compiled defaults in the scanner package must stay in
// sync with them, which the package test enforces.
package policies

import (
	"embed"
	"fmt"
)

//go:embed strict.yaml standard.yaml permissive.yaml
var FS embed.FS

// TierNames lists the built-in enforcement tiers, strictest first.
var TierNames = []string{"strict", "standard", "permissive"}

// Tier returns the embedded YAML definition for a named tier.
func Tier(name string) ([]byte, error) {
	for _, t := range TierNames {
		if t == name {
			return FS.ReadFile(name + ".yaml")
		}
	}
	return nil, fmt.Errorf("unknown tier %q", name)
}
