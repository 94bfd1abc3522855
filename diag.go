// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// The diagnostics channel carries the library's own warnings: rejected
// configuration values, sink fallbacks, dropped fields, write failures.
// It writes to stderr and is fully disjoint from the user's log stream,
// so library trouble stays visible to operators without corrupting
// application output.

var (
	// diagMu protects concurrent replacement of the diagnostics logger.
	diagMu sync.RWMutex

	diag = newDiagLogger(os.Stderr)
)

func newDiagLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", DefaultAppName).Logger()
}

// Diag returns the internal diagnostics logger.
func Diag() zerolog.Logger {
	diagMu.RLock()
	defer diagMu.RUnlock()
	return diag
}

// SetDiag replaces the diagnostics logger. Embedding applications can use
// this to reroute library warnings; tests use it to capture them.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetDiag(l zerolog.Logger) {
	diagMu.Lock()
	defer diagMu.Unlock()
	diag = l
}

// diagWarn starts a warning on the diagnostics channel.
func diagWarn() *zerolog.Event {
	l := Diag()
	return l.Warn()
}

// diagDebug starts a debug message on the diagnostics channel.
func diagDebug() *zerolog.Event {
	l := Diag()
	return l.Debug()
}
