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

package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/peg/preflight/internal/audit"
)

// Run streams scan trail events from dir to w, starting from the newest
// trail file, until ctx is done. With follow false, it prints the
// existing events and returns.
func Run(ctx context.Context, dir string, w io.Writer, follow bool) error {
	path, err := audit.LatestTrailFile(dir)
	if err != nil {
		return err
	}
	if path == "" && !follow {
		fmt.Fprintln(w, "no scans recorded")
		return nil
	}

	if !follow {
		events, _, err := audit.ReadEventsFromOffset(path, 0)
		if err != nil {
			return fmt.Errorf("watch: read trail: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(w, "no scans recorded")
			return nil
		}
		for _, event := range events {
			fmt.Fprintln(w, formatEventLine(event))
		}
		return nil
	}

	if path == "" {
		// Nothing written yet. Any real trail file sorts after this
		// placeholder, so the tailer switches to it on creation.
		path = filepath.Join(dir, "scans-.jsonl")
	}

	tailer := newFileTailer(path)
	for te := range tailer.start(ctx) {
		if te.err != nil {
			fmt.Fprintf(w, "error: %v\n", te.err)
			continue
		}
		fmt.Fprintln(w, formatEventLine(te.event))
	}
	return nil
}
