// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

// Package mypylogger provides a small, reliability-first JSON logging
// library around a single entry point, GetLogger.
//
// Every log call produces exactly one JSON object per line with a fixed,
// ordered set of standard fields followed by caller-supplied extras:
//
//	{"timestamp":"2026-01-03T10:30:00.000123Z","level":"INFO","message":"Server starting",
//	 "module":"main","filename":"cmd/server/main.go","function_name":"main","line":42,"port":3857}
//
// The load-bearing contract of the whole package is that nothing a logger
// does can ever raise into the calling application: malformed configuration
// is replaced with safe defaults, unusable log directories fall back to a
// temp directory and then to console-only output, and a record that cannot
// be serialized degrades to a plain "LEVEL: message" line. Internal trouble
// is reported on a dedicated diagnostics channel on stderr (see Diag and
// SetDiag), never interleaved with the application's own log stream.
//
// # Quick Start
//
//	import "github.com/tomtom215/mypylogger"
//
//	log := mypylogger.GetLogger()
//	log.Info("request processed", mypylogger.Fields{"user": "alice", "ms": 12})
//	log.Error("sync failed", mypylogger.Fields{"attempt": 3})
//
// Repeated GetLogger calls with the same resolved name return the same
// handle without attaching duplicate output sinks.
//
// # Configuration
//
// Configuration is resolved from the environment when a logger name is
// first configured, layered over an optional YAML file:
//
//	APP_NAME           logger-name fallback and log-file prefix (default: mypylogger)
//	LOG_LEVEL          DEBUG, INFO, WARNING, ERROR, CRITICAL (default: INFO)
//	LOG_TO_FILE        true/1/yes enables the file sink (default: false)
//	LOG_FILE_DIR       file sink directory (default: the system temp dir)
//	LOG_REDACT_FIELDS  true/1/yes masks sensitive extra fields (default: false)
//	LOG_CONFIG_FILE    path to an optional YAML config file
//
// Environment variables take priority over the config file, which takes
// priority over built-in defaults. Unrecognized values never fail: an
// unknown LOG_LEVEL resolves to INFO with a diagnostics warning.
//
// # Output Sinks
//
// Console output goes to stdout, written synchronously and unbuffered so a
// line is durable the moment the call returns. When file logging is
// enabled, lines are additionally appended to
//
//	{APP_NAME}_{YYYYMMDD}_{HH}.log
//
// inside LOG_FILE_DIR. An unusable directory falls back to a subdirectory
// of the system temp dir; if that also fails, file logging is disabled and
// console output continues. Each downgrade is a diagnostics warning, never
// an error to the caller.
//
// # Source Location
//
// Each record carries the module, filename, function and line of the call
// site, found by walking at most 20 stack frames above the formatter and
// skipping the library's own internals. Filenames are relative to the
// working directory when possible.
//
// # Extras
//
// Extra fields are emitted after the standard fields in ascending key
// order, so output is deterministic. The seven standard field names are
// reserved: a colliding extra is dropped, not merged. A value that cannot
// be serialized is dropped individually without failing the record.
//
// # slog Interop
//
// Logger.Slog exposes the underlying *slog.Logger so libraries built
// against log/slog share the same formatter and sinks. The package never
// touches slog.Default or the root logging state; it configures only the
// named loggers it owns.
//
// # Thread Safety
//
// All exported functions and methods are safe for concurrent use. The
// registry of configured logger names is mutex-guarded so two goroutines
// requesting the same new name configure it exactly once.
//
// # Testing
//
// Build a private Registry and point its console output at a buffer:
//
//	var buf bytes.Buffer
//	r := mypylogger.NewRegistryWithConsole(&buf)
//	r.Get("svc").Info("captured")
//
// SetDiag reroutes the diagnostics channel the same way. Loggers from a
// private registry are fully independent of the package-level GetLogger.
package mypylogger
