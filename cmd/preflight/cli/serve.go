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
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peg/preflight/internal/audit"
	"github.com/peg/preflight/internal/server"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr     string
		auditDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scan API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd.ErrOrStderr())

			var serverOpts []server.Option
			serverOpts = append(serverOpts, server.WithLogger(logger))
			if auditDir != "" {
				sink, err := audit.NewJSONLSink(auditDir, audit.WithLogger(logger))
				if err != nil {
					return err
				}
				defer sink.Close()
				serverOpts = append(serverOpts, server.WithAuditSink(sink))
			}

			srv := server.New(serverOpts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8475", "Listen address")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "", "Directory for the JSONL scan trail (disabled when empty)")

	return cmd
}
