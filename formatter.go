// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// LevelCritical extends the standard slog levels with the highest severity
// the library emits.
const LevelCritical = slog.LevelError + 4

// timestampLayout is ISO-8601 UTC with microsecond precision.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// maxCallerDepth caps the stack walk so source-location extraction stays
// bounded even on pathological stacks.
const maxCallerDepth = 20

// reservedFields are the standard record keys in emission order. Extras
// colliding with any of them are dropped, never merged.
var reservedFields = []string{
	"timestamp", "level", "message", "module", "filename", "function_name", "line",
}

var reservedFieldSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(reservedFields))
	for _, f := range reservedFields {
		s[f] = struct{}{}
	}
	return s
}()

// levelName returns the canonical name for a level.
func levelName(l slog.Level) string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// parseLevel converts a level name to its slog.Level. Unrecognized input
// maps to INFO.
func parseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// sourceLocation describes where a log call was issued from. One instance
// exists per record, only for the duration of formatting it.
type sourceLocation struct {
	Module   string
	Filename string
	Function string
	Line     int
}

// pkgDir is the directory holding the library's own source files. Frames
// from these files (test files excluded) are skipped during caller lookup.
var pkgDir = func() string {
	if _, f, _, ok := runtime.Caller(0); ok {
		return filepath.Dir(f)
	}
	return ""
}()

// internalFrame reports whether file belongs to the logging machinery
// rather than the calling application.
func internalFrame(file string) bool {
	if strings.Contains(file, "log/slog") {
		return true
	}
	if pkgDir != "" && filepath.Dir(file) == pkgDir && !strings.HasSuffix(file, "_test.go") {
		return true
	}
	return false
}

// callerLocation walks at most maxCallerDepth frames upward, skipping the
// library's own files and slog internals, and returns the first external
// frame. When no external frame exists within the cap it degrades to the
// record's captured pc, which may itself be zero.
func callerLocation(pc uintptr) sourceLocation {
	pcs := make([]uintptr, maxCallerDepth)
	// Skip runtime.Callers and callerLocation itself; the internal-frame
	// filter handles everything above.
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.PC != 0 && frame.File != "" && !internalFrame(frame.File) {
			return locationFromFrame(frame)
		}
		if !more {
			break
		}
	}
	if pc != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		if frame.File != "" {
			return locationFromFrame(frame)
		}
	}
	return sourceLocation{}
}

func locationFromFrame(frame runtime.Frame) sourceLocation {
	loc := sourceLocation{
		Filename: relativePath(frame.File),
		Line:     frame.Line,
	}
	loc.Module, loc.Function = splitFunction(frame.Function)
	return loc
}

// splitFunction breaks a runtime function name such as
// "github.com/acme/svc/worker.(*Pool).Run" into the package name and the
// function part within it.
func splitFunction(fn string) (module, function string) {
	if fn == "" {
		return "", ""
	}
	short := fn
	if i := strings.LastIndex(short, "/"); i >= 0 {
		short = short[i+1:]
	}
	if i := strings.Index(short, "."); i >= 0 {
		return short[:i], short[i+1:]
	}
	return short, ""
}

// relativePath makes file relative to the working directory when the result
// stays inside it. Relativization is cosmetic; on any failure the absolute
// path is kept.
func relativePath(file string) string {
	wd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

// extraField is one caller-supplied field headed for the record tail.
type extraField struct {
	key string
	val any
}

// jsonHandler is the slog.Handler producing one ordered JSON object per
// line. It owns the sinks of its logger and serializes writes with a
// per-handler mutex, the same guarantee stdlib handler dispatch gives.
type jsonHandler struct {
	level  slog.Level
	sinks  *sinkSet
	redact bool
	attrs  []extraField // persistent extras from WithAttrs
	groups []string
	mu     *sync.Mutex

	// marshal is the encoder seam; tests swap it to force whole-record
	// serialization failure.
	marshal func(any) ([]byte, error)
}

func newJSONHandler(cfg Config, sinks *sinkSet) *jsonHandler {
	return &jsonHandler{
		level:   cfg.Level,
		sinks:   sinks,
		redact:  cfg.RedactFields,
		mu:      &sync.Mutex{},
		marshal: func(v any) ([]byte, error) { return json.Marshal(v) },
	}
}

// Enabled reports whether records at level are emitted.
func (h *jsonHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes one record. It never returns an error to the
// slog machinery: a record that cannot be serialized degrades to a plain
// "LEVEL: message" line instead.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler
func (h *jsonHandler) Handle(_ context.Context, record slog.Record) error {
	line, ok := h.formatJSON(record)
	if !ok {
		line = []byte(fmt.Sprintf("%s: %s\n", levelName(record.Level), record.Message))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks.write(line)
	return nil
}

// WithAttrs returns a handler whose extras are attached to every record.
func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, extraField{key: h.prefixed(a.Key), val: a.Value.Resolve().Any()})
	}
	return clone
}

// WithGroup returns a handler that prefixes subsequent extra keys with the
// group name.
func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// clone copies the handler. Sinks and their mutex are shared so parent and
// children stay serialized against each other.
func (h *jsonHandler) clone() *jsonHandler {
	clone := *h
	clone.attrs = append([]extraField(nil), h.attrs...)
	clone.groups = append([]string(nil), h.groups...)
	return &clone
}

func (h *jsonHandler) prefixed(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// formatJSON renders the record as one ordered JSON line. The ok result is
// the degradation switch: when false the caller emits the plain-text form.
// Panics from hostile Stringer or LogValuer implementations are contained
// here; nothing escapes into the application.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler
func (h *jsonHandler) formatJSON(record slog.Record) (line []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			diagWarn().Interface("panic", r).Msg("record formatting panicked, degrading to plain text")
			line, ok = nil, false
		}
	}()

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	loc := callerLocation(record.PC)

	buf := make([]byte, 0, 256)
	buf = append(buf, '{')

	standard := []extraField{
		{key: "timestamp", val: ts.UTC().Format(timestampLayout)},
		{key: "level", val: levelName(record.Level)},
		{key: "message", val: record.Message},
		{key: "module", val: loc.Module},
		{key: "filename", val: loc.Filename},
		{key: "function_name", val: loc.Function},
		{key: "line", val: loc.Line},
	}
	for i, f := range standard {
		next, err := h.appendField(buf, f.key, f.val, i == 0)
		if err != nil {
			diagWarn().Str("field", f.key).Err(err).Msg("record serialization failed, degrading to plain text")
			return nil, false
		}
		buf = next
	}

	for _, f := range h.extras(record) {
		next, err := h.appendField(buf, f.key, f.val, false)
		if err != nil {
			diagWarn().Str("field", f.key).Err(err).Msg("dropping unserializable extra field")
			continue
		}
		buf = next
	}

	buf = append(buf, '}', '\n')
	return buf, true
}

// appendField marshals key and value and appends `"key":value` to buf,
// prepending a comma unless first. On error buf is returned unchanged.
func (h *jsonHandler) appendField(buf []byte, key string, val any, first bool) ([]byte, error) {
	vb, err := h.marshal(val)
	if err != nil {
		return buf, err
	}
	kb, err := h.marshal(key)
	if err != nil {
		return buf, err
	}
	if !first {
		buf = append(buf, ',')
	}
	buf = append(buf, kb...)
	buf = append(buf, ':')
	buf = append(buf, vb...)
	return buf, nil
}

// extras merges persistent attrs with per-call attrs (per-call wins on key
// collision), drops reserved names, applies redaction when enabled and
// returns the remainder in ascending key order. Sorting is the documented
// deterministic choice: extras arrive as a map, so there is no insertion
// order to preserve.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler
func (h *jsonHandler) extras(record slog.Record) []extraField {
	merged := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, f := range h.attrs {
		merged[f.key] = f.val
	}
	record.Attrs(func(a slog.Attr) bool {
		merged[h.prefixed(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	out := make([]extraField, 0, len(merged))
	for k, v := range merged {
		if _, reserved := reservedFieldSet[k]; reserved {
			diagDebug().Str("field", k).Msg("dropping extra field colliding with a reserved name")
			continue
		}
		if h.redact {
			v = redactValue(k, v)
		}
		out = append(out, extraField{key: k, val: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}
