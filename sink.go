// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SinkTier identifies which target of the file-sink fallback ladder is in
// use: the configured directory, a subdirectory of the system temp dir, or
// no file at all. Modeling the ladder as a value keeps every tier
// observable and testable instead of hiding it in error-handling control
// flow.
type SinkTier int

const (
	// TierPrimary means the configured LOG_FILE_DIR is in use.
	TierPrimary SinkTier = iota
	// TierTemp means the temp-directory fallback is in use.
	TierTemp
	// TierConsoleOnly means file logging is off or was disabled after both
	// directory tiers failed.
	TierConsoleOnly
)

func (t SinkTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierTemp:
		return "temp"
	default:
		return "console-only"
	}
}

// tempFallbackDir returns the second-tier log directory. A variable so
// tests can force the console-only tier.
var tempFallbackDir = func() string {
	return filepath.Join(os.TempDir(), DefaultAppName)
}

// sinkSet is the set of output targets for one logger: a console writer
// that is always present and an optional best-effort file. Writes are
// synchronous and unbuffered, so a line is durable once the log call
// returns.
type sinkSet struct {
	console io.Writer
	file    *os.File
	tier    SinkTier
}

// newSinkSet builds the sinks for cfg. Console output always works; the
// file sink is attached only when enabled and a writable directory exists.
func newSinkSet(cfg Config, console io.Writer, now time.Time) *sinkSet {
	s := &sinkSet{console: console, tier: TierConsoleOnly}
	if !cfg.ToFile {
		return s
	}
	s.file, s.tier = openFileSink(cfg, now)
	return s
}

// write sends one formatted line to every attached sink. Failures are
// reported on the diagnostics channel and never propagate to the caller.
func (s *sinkSet) write(line []byte) {
	if _, err := s.console.Write(line); err != nil {
		diagWarn().Err(err).Msg("console write failed")
	}
	if s.file == nil {
		return
	}
	if _, err := s.file.Write(line); err != nil {
		diagWarn().Err(err).Str("path", s.file.Name()).Msg("log file write failed")
	}
}

// logFileName builds the {app_name}_{YYYYMMDD}_{HH}.log pattern in UTC.
func logFileName(appName string, now time.Time) string {
	utc := now.UTC()
	return fmt.Sprintf("%s_%s_%s.log", appName, utc.Format("20060102"), utc.Format("15"))
}

// openFileSink walks the fallback ladder: the configured directory, then
// the temp subdirectory, then no file at all. Each downgrade is a warning
// on the diagnostics channel, never an error to the caller.
func openFileSink(cfg Config, now time.Time) (*os.File, SinkTier) {
	name := logFileName(cfg.AppName, now)

	f, err := openLogFile(cfg.FileDir, name)
	if err == nil {
		return f, TierPrimary
	}
	diagWarn().Err(err).Str("dir", cfg.FileDir).Msg("log directory unusable, trying temp fallback")

	fallback := tempFallbackDir()
	f, err = openLogFile(fallback, name)
	if err == nil {
		return f, TierTemp
	}
	diagWarn().Err(err).Str("dir", fallback).Msg("temp fallback unusable, disabling file logging")

	return nil, TierConsoleOnly
}

// openLogFile ensures dir exists and is writable, then opens the log file
// for appending. Writability is probed up front so a bad directory is
// caught at configuration time, not on the first log call.
func openLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}
