// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := ContextWithCorrelationID(context.Background(), "abc12345")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("CorrelationIDFromContext = %q, want abc12345", got)
	}
	if got := CorrelationIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty ID from bare context, got %q", got)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty ID from bare context, got %q", got)
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	cid := GenerateCorrelationID()
	if len(cid) != 8 {
		t.Errorf("correlation ID length = %d, want 8: %q", len(cid), cid)
	}
	if GenerateCorrelationID() == cid {
		t.Error("expected distinct correlation IDs")
	}

	rid := GenerateRequestID()
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("request ID %q is not a UUID: %v", rid, err)
	}
}

func TestLoggerCtxAttachesIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, Config{AppName: "test"})

	ctx := ContextWithCorrelationID(context.Background(), "abc12345")
	ctx = ContextWithRequestID(ctx, "req-9")
	log.Ctx(ctx).Info("traced")

	m := decodeLine(t, firstLine(t, buf.String()))
	if m["correlation_id"] != "abc12345" {
		t.Errorf("expected correlation_id field, got %v", m["correlation_id"])
	}
	if m["request_id"] != "req-9" {
		t.Errorf("expected request_id field, got %v", m["request_id"])
	}
}

func TestLoggerCtxEmptyContext(t *testing.T) {
	log := newBufferLogger(bytes.NewBuffer(nil), Config{AppName: "test"})
	if log.Ctx(context.Background()) != log {
		t.Error("expected the receiver back when the context carries no IDs")
	}
}
