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

package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestTrailFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"scans-2026-08-24.jsonl",
		"scans-2026-08-26.jsonl",
		"scans-2026-08-25.jsonl",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	path, err := LatestTrailFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scans-2026-08-26.jsonl"), path)
}

func TestLatestTrailFileEmptyDir(t *testing.T) {
	path, err := LatestTrailFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}

// A directory that was never created means no scan has been recorded;
// that is an empty trail, not an error.
func TestLatestTrailFileMissingDir(t *testing.T) {
	path, err := LatestTrailFile(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestReadEventsFromOffsetResumes(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, sink.Write(Event{Source: "cli", Tier: "strict", Severity: "none"}))
	require.NoError(t, sink.Flush())

	path, err := LatestTrailFile(dir)
	require.NoError(t, err)

	events, offset, err := ReadEventsFromOffset(path, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, sink.Write(Event{Source: "api", Tier: "standard", Severity: "high"}))
	require.NoError(t, sink.Flush())

	events, _, err = ReadEventsFromOffset(path, offset)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "api", events[0].Source)
}
