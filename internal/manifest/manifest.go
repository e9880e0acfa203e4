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

// Package manifest loads package-install manifests and extracts the
// shell commands they declare, without interpreting anything else about
// the package format.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a loaded install manifest. The raw document tree is kept
// alongside the metadata so command extraction preserves the author's
// declaration order.
type Manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`

	root *yaml.Node
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return m, nil
}

// Parse parses manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	m := &Manifest{root: &root}
	if err := root.Decode(m); err != nil {
		// Metadata is best effort; a manifest that is a bare list of
		// commands has no name/version mapping to decode.
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 &&
			root.Content[0].Kind == yaml.MappingNode {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}
	return m, nil
}

// Commands extracts every command string declared under a "commands" or
// "post-install" key, however deeply nested, in document order.
func (m *Manifest) Commands() []string {
	if m.root == nil {
		return nil
	}
	return extractNode(m.root, false)
}
