// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"bytes"
	"testing"
)

func TestRedactValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		val  any
		want any
	}{
		{"long token masked", "password", "supersecretvalue", "supe...alue"},
		{"short token stubbed", "token", "abc", "***"},
		{"key match is case-insensitive", "API_KEY", "0123456789abcdef", "0123...cdef"},
		{"email masked", "contact", "john.doe@example.com", "jo***@example.com"},
		{"short email local part", "contact", "jo@example.com", "***@example.com"},
		{"non-sensitive string untouched", "job", "reindex", "reindex"},
		{"non-string untouched", "password", 12345, 12345},
		{"empty sensitive value", "secret", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := redactValue(tt.key, tt.val); got != tt.want {
				t.Errorf("redactValue(%q, %v) = %v, want %v", tt.key, tt.val, got, tt.want)
			}
		})
	}
}

func TestRedactionEnabledInRecord(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, Config{AppName: "test", RedactFields: true})

	log.Info("login", Fields{"password": "supersecretvalue", "user": "alice"})

	m := decodeLine(t, firstLine(t, buf.String()))
	if m["password"] != "supe...alue" {
		t.Errorf("expected masked password, got %v", m["password"])
	}
	if m["user"] != "alice" {
		t.Errorf("expected non-sensitive field untouched, got %v", m["user"])
	}
}

func TestRedactionDisabledByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, Config{AppName: "test"})

	log.Info("login", Fields{"password": "supersecretvalue"})

	m := decodeLine(t, firstLine(t, buf.String()))
	if m["password"] != "supersecretvalue" {
		t.Errorf("expected raw value with redaction off, got %v", m["password"])
	}
}
