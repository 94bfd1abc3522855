// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// clearLogEnv unsets every environment variable the library reads, with
// restoration registered via t.Setenv.
func clearLogEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAppName, EnvLogLevel, EnvLogToFile, EnvLogFileDir, EnvRedactFields, EnvConfigFile,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// newBufferLogger builds a console-only logger writing to w, bypassing the
// registry and environment.
func newBufferLogger(w io.Writer, cfg Config) *Logger {
	sinks := &sinkSet{console: w, tier: TierConsoleOnly}
	h := newJSONHandler(cfg, sinks)
	return &Logger{name: cfg.AppName, slogger: slog.New(h), handler: h}
}

// captureDiag reroutes the diagnostics channel into a buffer for the
// duration of the test.
func captureDiag(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Diag()
	SetDiag(zerolog.New(&buf))
	t.Cleanup(func() { SetDiag(prev) })
	return &buf
}

// firstLine returns the first non-empty line of s.
func firstLine(t *testing.T, s string) string {
	t.Helper()
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	t.Fatalf("no output line found in %q", s)
	return ""
}

// decodeLine unmarshals one JSON log line.
func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON line %q: %v", line, err)
	}
	return m
}

// jsonKeys returns the top-level keys of one JSON line in document order.
func jsonKeys(t *testing.T, line string) []string {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(line))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		t.Fatalf("expected JSON object, got %v (err %v) in %q", tok, err, line)
	}
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			t.Fatalf("reading key: %v", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			t.Fatalf("expected string key, got %v", keyTok)
		}
		keys = append(keys, key)
		var v any
		if err := dec.Decode(&v); err != nil {
			t.Fatalf("reading value for %q: %v", key, err)
		}
	}
	return keys
}

// failingWriter errors on every write.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("writer closed")
}

// nonEmptyLines splits buffered output into its non-empty lines.
func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
