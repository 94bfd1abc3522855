// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for log correlation.
type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
)

// GenerateCorrelationID creates a new unique correlation ID.
// Returns the first 8 characters of a UUID for readability.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID creates a new unique request ID.
// Returns a full UUID for uniqueness across distributed systems.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a new context carrying the given
// correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID returns a context carrying a newly generated
// correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext retrieves the correlation ID from ctx, or ""
// when not present.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from ctx, or "" when not
// present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a child logger carrying the correlation and request IDs
// found in ctx as extra fields. The receiver is returned unchanged when
// ctx carries neither.
//
//	ctx := mypylogger.ContextWithNewCorrelationID(r.Context())
//	log.Ctx(ctx).Info("request processed")
func (l *Logger) Ctx(ctx context.Context) *Logger {
	fields := Fields{}
	if id := CorrelationIDFromContext(ctx); id != "" {
		fields["correlation_id"] = id
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields)
}
