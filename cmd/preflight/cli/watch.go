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
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/peg/preflight/internal/manifest"
	"github.com/peg/preflight/internal/scanner"
)

// writeDebounce coalesces the burst of write events editors emit when
// saving a file.
const writeDebounce = 250 * time.Millisecond

func newWatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Rescan a manifest whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := scanner.TierByKey(opts.tier)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("cli: resolve path: %w", err)
			}

			logger := opts.logger(cmd.ErrOrStderr())
			out := cmd.OutOrStdout()
			s := scanner.New(logger)

			rescan := func() {
				m, err := manifest.Load(path)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					return
				}
				renderResult(out, m, tier, s.Scan(m.Commands(), tier))
			}
			rescan()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("cli: create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory, not the file: editors replace files
			// on save, which drops a direct file watch.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("cli: watch %s: %w", filepath.Dir(path), err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var timer *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != path {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(writeDebounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})

				case <-pending:
					fmt.Fprintln(out)
					rescan()

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("cli: watch error", "error", err)
				}
			}
		},
	}
	return cmd
}
