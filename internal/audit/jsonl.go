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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink writes scan events to a persistent store.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// SinkOption configures a sink.
type SinkOption func(*sinkConfig)

type sinkConfig struct {
	fsync  bool
	logger *slog.Logger
}

// WithFsync configures whether writes call fsync before returning.
// Defaults to false; a scan trail is informational, not transactional.
func WithFsync(enabled bool) SinkOption {
	return func(cfg *sinkConfig) {
		cfg.fsync = enabled
	}
}

// WithLogger configures the logger for sink operations.
// Defaults to slog.Default() if not set.
func WithLogger(logger *slog.Logger) SinkOption {
	return func(cfg *sinkConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// JSONLSink is an append-only JSONL sink, one file per UTC day.
type JSONLSink struct {
	mu sync.Mutex

	dir         string
	file        *os.File
	currentFile string
	fsync       bool
	closed      bool
	logger      *slog.Logger
}

// NewJSONLSink creates a JSONL-backed scan trail in dir, creating it if
// needed.
func NewJSONLSink(dir string, opts ...SinkOption) (*JSONLSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("audit: sink dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("audit: create sink dir: %w", err)
	}

	var cfg sinkConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	sink := &JSONLSink{
		dir:    dir,
		fsync:  cfg.fsync,
		logger: cfg.logger,
	}
	if err := sink.openLocked(time.Now().UTC()); err != nil {
		return nil, err
	}
	return sink, nil
}

// Write appends one event. ID and Timestamp are filled if empty, and a
// UTC day change rolls over to a new file.
func (s *JSONLSink) Write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("audit: write on closed sink")
	}
	if event.ID == "" {
		event.ID = NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if name := fileForDay(event.Timestamp); name != s.currentFile {
		if err := s.openLocked(event.Timestamp); err != nil {
			return err
		}
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}
	line = append(line, '\n')

	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("audit: write event: %w", err)
	}
	if s.fsync {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("audit: fsync event: %w", err)
		}
	}

	s.logger.Debug("audit: wrote event",
		"event_id", event.ID,
		"severity", event.Severity,
		"file", s.currentFile,
	)
	return nil
}

// Flush flushes pending data to disk.
func (s *JSONLSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("audit: flush sink: %w", err)
	}
	return nil
}

// Close flushes and closes the sink.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("audit: close sync: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("audit: close sink file: %w", err)
	}
	s.file = nil
	return nil
}

func fileForDay(t time.Time) string {
	return "scans-" + t.UTC().Format("2006-01-02") + ".jsonl"
}

func (s *JSONLSink) openLocked(t time.Time) error {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			return fmt.Errorf("audit: close previous file: %w", err)
		}
	}

	name := fileForDay(t)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", name, err)
	}
	s.file = f
	s.currentFile = name
	return nil
}
