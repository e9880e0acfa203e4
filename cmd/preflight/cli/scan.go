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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peg/preflight/internal/audit"
	"github.com/peg/preflight/internal/manifest"
	"github.com/peg/preflight/internal/scanner"
)

// severityError carries a scan verdict out of the command as a process
// exit code, so shell pipelines and CI steps can branch on it.
type severityError struct {
	severity scanner.Severity
}

func (e *severityError) Error() string {
	return fmt.Sprintf("scan found %s severity findings", e.severity)
}

func (e *severityError) ExitCode() int {
	switch e.severity {
	case scanner.SeverityCritical:
		return 4
	case scanner.SeverityHigh:
		return 3
	case scanner.SeverityLow, scanner.SeverityMedium:
		return 2
	default:
		return 0
	}
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON   bool
		failOn   string
		auditDir string
	)

	cmd := &cobra.Command{
		Use:   "scan <manifest>",
		Short: "Scan a manifest's install commands without executing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := scanner.TierByKey(opts.tier)
			if err != nil {
				return err
			}
			threshold, err := scanner.ParseSeverity(failOn)
			if err != nil {
				return fmt.Errorf("cli: --fail-on: %w", err)
			}

			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			commands := m.Commands()

			logger := opts.logger(cmd.ErrOrStderr())
			res := scanner.New(logger).Scan(commands, tier)

			if auditDir != "" {
				sink, err := audit.NewJSONLSink(auditDir, audit.WithLogger(logger))
				if err != nil {
					return err
				}
				defer sink.Close()
				if err := sink.Write(audit.NewEvent("cli", args[0], len(commands), res)); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("cli: encode result: %w", err)
				}
			} else {
				renderResult(cmd.OutOrStdout(), m, tier, res)
			}

			if res.Severity >= threshold && res.Severity > scanner.SeverityNone {
				return &severityError{severity: res.Severity}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the scan result as JSON")
	cmd.Flags().StringVar(&failOn, "fail-on", "low", "Lowest severity that fails the scan (none, low, medium, high, critical)")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "", "Directory for the JSONL scan trail (disabled when empty)")

	return cmd
}
