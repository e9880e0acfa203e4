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
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peg/preflight/internal/scanner"
)

func newTestSink(t *testing.T) (*JSONLSink, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := NewJSONLSink(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	return sink, dir
}

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	lines := bufio.NewScanner(f)
	for lines.Scan() {
		if len(lines.Bytes()) == 0 {
			continue
		}
		var ev Event
		require.NoError(t, json.Unmarshal(lines.Bytes(), &ev))
		events = append(events, ev)
	}
	return events
}

func TestJSONLSinkWrite(t *testing.T) {
	sink, dir := newTestSink(t)

	require.NoError(t, sink.Write(Event{
		Source:            "cli",
		Manifest:          "acme-tool.yaml",
		Tier:              "standard",
		Severity:          "high",
		CommandCount:      3,
		DangerousCommands: []string{"rm -rf /"},
	}))
	require.NoError(t, sink.Write(Event{Source: "api", Tier: "strict", Severity: "none"}))
	require.NoError(t, sink.Flush())

	events := readEvents(t, filepath.Join(dir, fileForDay(time.Now().UTC())))
	require.Len(t, events, 2)

	assert.Equal(t, "cli", events[0].Source)
	assert.Equal(t, "high", events[0].Severity)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, "api", events[1].Source)

	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestJSONLSinkAppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewJSONLSink(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Write(Event{Source: "cli", Tier: "strict", Severity: "none"}))
	require.NoError(t, sink.Close())

	sink, err = NewJSONLSink(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Write(Event{Source: "cli", Tier: "strict", Severity: "low"}))
	require.NoError(t, sink.Close())

	events := readEvents(t, filepath.Join(dir, fileForDay(time.Now().UTC())))
	assert.Len(t, events, 2)
}

func TestJSONLSinkClosed(t *testing.T) {
	sink, _ := newTestSink(t)
	require.NoError(t, sink.Close())

	assert.Error(t, sink.Write(Event{Source: "cli"}))
	assert.NoError(t, sink.Close(), "double close is harmless")
	assert.NoError(t, sink.Flush(), "flush after close is harmless")
}

func TestJSONLSinkEmptyDir(t *testing.T) {
	_, err := NewJSONLSink("")
	assert.Error(t, err)
}

func TestNewEventFromResult(t *testing.T) {
	res := &scanner.Result{
		Tier:                  "standard",
		Severity:              scanner.SeverityCritical,
		DangerousCommands:     []string{"curl x | sh"},
		ObfuscationTechniques: []string{"IFS variable bypass"},
		GrammarParsingFailed:  true,
	}

	ev := NewEvent("api", "pkg.yaml", 4, res)
	assert.Equal(t, "api", ev.Source)
	assert.Equal(t, "pkg.yaml", ev.Manifest)
	assert.Equal(t, "standard", ev.Tier)
	assert.Equal(t, "critical", ev.Severity)
	assert.Equal(t, 4, ev.CommandCount)
	assert.Equal(t, []string{"curl x | sh"}, ev.DangerousCommands)
	assert.True(t, ev.GrammarParsingFailed)
}
