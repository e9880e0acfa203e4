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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peg/preflight/internal/watch"
)

func newLogCmd() *cobra.Command {
	var (
		auditDir string
		follow   bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recorded scan verdicts from the trail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if follow {
				var stop func()
				ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
			}
			return watch.Run(ctx, auditDir, cmd.OutOrStdout(), follow)
		},
	}

	cmd.Flags().StringVar(&auditDir, "audit-dir", "preflight-audit", "Directory holding the JSONL scan trail")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new scans as they are recorded")

	return cmd
}
