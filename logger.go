// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Fields carries caller-supplied structured fields for one log call or for
// a child logger.
type Fields map[string]any

// Logger is a configured logging handle. All methods are safe for
// concurrent use.
type Logger struct {
	name    string
	slogger *slog.Logger
	handler *jsonHandler
}

// Name returns the resolved logger name.
func (l *Logger) Name() string { return l.name }

// Slog exposes the underlying slog.Logger for libraries built against the
// standard interface. Records logged through it pass through the same
// formatter and sinks.
func (l *Logger) Slog() *slog.Logger { return l.slogger }

// Debug logs msg at DEBUG level with optional extra fields.
func (l *Logger) Debug(msg string, extra ...Fields) { l.log(slog.LevelDebug, msg, extra) }

// Info logs msg at INFO level with optional extra fields.
func (l *Logger) Info(msg string, extra ...Fields) { l.log(slog.LevelInfo, msg, extra) }

// Warning logs msg at WARNING level with optional extra fields.
func (l *Logger) Warning(msg string, extra ...Fields) { l.log(slog.LevelWarn, msg, extra) }

// Error logs msg at ERROR level with optional extra fields.
func (l *Logger) Error(msg string, extra ...Fields) { l.log(slog.LevelError, msg, extra) }

// Critical logs msg at CRITICAL level with optional extra fields.
func (l *Logger) Critical(msg string, extra ...Fields) { l.log(LevelCritical, msg, extra) }

func (l *Logger) log(level slog.Level, msg string, extra []Fields) {
	merged := Fields{}
	for _, f := range extra {
		for k, v := range f {
			merged[k] = v
		}
	}
	l.slogger.LogAttrs(context.Background(), level, msg, attrsFromFields(merged)...)
}

// With returns a child logger whose fields are attached to every record.
// Per-call extras win on key collision; reserved field names stay
// protected either way.
func (l *Logger) With(fields Fields) *Logger {
	if len(fields) == 0 {
		return l
	}
	h, ok := l.handler.WithAttrs(attrsFromFields(fields)).(*jsonHandler)
	if !ok {
		return l
	}
	return &Logger{name: l.name, slogger: slog.New(h), handler: h}
}

// attrsFromFields converts a Fields map to slog attributes in ascending
// key order.
func attrsFromFields(fields Fields) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// Registry tracks which logger names have been configured so repeated
// lookups of one name share a handle and never attach duplicate sinks.
// A Registry is safe for concurrent use; two goroutines racing on a new
// name configure it exactly once.
type Registry struct {
	mu      sync.Mutex
	console io.Writer
	loggers map[string]*Logger
}

// NewRegistry returns an empty registry writing console output to stdout.
func NewRegistry() *Registry {
	return NewRegistryWithConsole(os.Stdout)
}

// NewRegistryWithConsole returns an empty registry with a custom console
// writer. Tests use this to capture output.
func NewRegistryWithConsole(console io.Writer) *Registry {
	return &Registry{
		console: console,
		loggers: make(map[string]*Logger),
	}
}

// defaultRegistry backs the package-level GetLogger.
var defaultRegistry = NewRegistry()

// GetLogger resolves a logger by name, configuring it on first use. The
// optional argument is the explicit name; when absent the name falls back
// to APP_NAME, then the calling package, then "mypylogger". Only the named
// loggers this package creates are ever touched; the process-global slog
// and log state stay untouched so the library composes with a host
// application's own logging setup.
func GetLogger(name ...string) *Logger {
	explicit := ""
	if len(name) > 0 {
		explicit = name[0]
	}
	return defaultRegistry.Get(explicit)
}

// Get returns the configured logger for name, creating it exactly once.
// An empty name triggers the documented fallback chain.
func (r *Registry) Get(name string) *Logger {
	resolved := resolveName(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[resolved]; ok {
		return l
	}

	cfg := resolveConfig()
	sinks := newSinkSet(cfg, r.console, time.Now())
	handler := newJSONHandler(cfg, sinks)
	l := &Logger{
		name:    resolved,
		slogger: slog.New(handler),
		handler: handler,
	}
	r.loggers[resolved] = l
	return l
}

// resolveName applies the name fallback chain: explicit argument, the
// APP_NAME environment variable, the calling package, then DefaultAppName.
// First non-empty wins.
func resolveName(explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if fromEnv := strings.TrimSpace(os.Getenv(EnvAppName)); fromEnv != "" {
		return fromEnv
	}
	if loc := callerLocation(0); loc.Module != "" {
		return loc.Module
	}
	return DefaultAppName
}
