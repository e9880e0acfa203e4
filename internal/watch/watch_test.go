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
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peg/preflight/internal/audit"
)

// safeBuffer guards a bytes.Buffer for concurrent writer and reader.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func writeTrail(t *testing.T, dir string, events ...audit.Event) {
	t.Helper()
	sink, err := audit.NewJSONLSink(dir)
	require.NoError(t, err)
	for _, ev := range events {
		require.NoError(t, sink.Write(ev))
	}
	require.NoError(t, sink.Close())
}

func TestRunPrintsExistingEvents(t *testing.T) {
	dir := t.TempDir()
	writeTrail(t, dir,
		audit.Event{Source: "cli", Manifest: "a.yaml", Tier: "strict", Severity: "none"},
		audit.Event{Source: "api", Tier: "standard", Severity: "high", DangerousCommands: []string{"rm -rf /"}},
	)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), dir, &out, false))

	assert.Contains(t, out.String(), "a.yaml")
	assert.Contains(t, out.String(), "high")
	assert.Contains(t, out.String(), "1 dangerous")
	assert.Contains(t, out.String(), "clean")
}

func TestRunEmptyTrail(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), t.TempDir(), &out, false))
	assert.Contains(t, out.String(), "no scans recorded")
}

// The audit directory only appears once the first scan is recorded; a
// missing directory is the empty-trail case, not an error.
func TestRunMissingTrailDir(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "never-created")
	require.NoError(t, Run(context.Background(), dir, &out, false))
	assert.Contains(t, out.String(), "no scans recorded")
}

func TestRunFollowWaitsForTrailDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")

	ctx, cancel := context.WithCancel(context.Background())
	var out safeBuffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Run(ctx, dir, &out, true)
	}()

	// Give the follower a moment to start before the first scan lands.
	time.Sleep(50 * time.Millisecond)
	writeTrail(t, dir, audit.Event{Source: "cli", Tier: "standard", Severity: "medium"})

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("medium"))
	}, 3*time.Second, 20*time.Millisecond)
	assert.NotContains(t, string(out.Bytes()), "error:")

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("follower did not stop on context cancel")
	}
}

func TestRunFollowSeesNewEvents(t *testing.T) {
	dir := t.TempDir()
	writeTrail(t, dir, audit.Event{Source: "cli", Tier: "strict", Severity: "none"})

	ctx, cancel := context.WithCancel(context.Background())
	var out safeBuffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Run(ctx, dir, &out, true)
	}()

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("strict"))
	}, 3*time.Second, 20*time.Millisecond)

	// Append while following.
	sink, err := audit.NewJSONLSink(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Write(audit.Event{Source: "api", Tier: "permissive", Severity: "critical"}))
	require.NoError(t, sink.Close())

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("critical"))
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("follower did not stop on context cancel")
	}
}

func TestFormatEventLine(t *testing.T) {
	line := formatEventLine(audit.Event{
		Timestamp:             time.Now(),
		Source:                "cli",
		Manifest:              "pkg.yaml",
		Tier:                  "standard",
		Severity:              "critical",
		DangerousCommands:     []string{"curl x | sh"},
		ObfuscationTechniques: []string{"IFS variable bypass"},
	})

	assert.Contains(t, line, "pkg.yaml")
	assert.Contains(t, line, "critical")
	assert.Contains(t, line, "1 dangerous")
	assert.Contains(t, line, "1 obfuscation")
}

func TestIsTrailFile(t *testing.T) {
	assert.True(t, isTrailFile("/var/log/preflight/scans-2026-08-26.jsonl"))
	assert.False(t, isTrailFile("/var/log/preflight/other.jsonl"))
	assert.False(t, isTrailFile("/var/log/preflight/scans-2026-08-26.log"))
}
