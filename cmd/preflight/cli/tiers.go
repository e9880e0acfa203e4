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

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peg/preflight/internal/scanner"
)

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List the enforcement tiers and what each allows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, tier := range scanner.Tiers() {
				var cats []string
				for _, cat := range scanner.Categories() {
					if tier.Allows(cat) {
						cats = append(cats, cat.String())
					}
				}

				marker := " "
				if tier.Key == scanner.DefaultTier().Key {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-10s  %s\n", marker, tier.Key, strings.Join(cats, ", "))
				fmt.Fprintf(out, "             grammar validation: %v, obfuscation blocking: %v\n",
					tier.RequiresGrammarValidation, tier.BlocksObfuscation)
				if tier.Warning != "" {
					fmt.Fprintf(out, "             warning: %s\n", tier.Warning)
				}
			}
			fmt.Fprintln(out, "\n* default")
			return nil
		},
	}
}
