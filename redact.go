// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import "strings"

// Opt-in masking of sensitive extra fields, enabled via LOG_REDACT_FIELDS.
// Only extras are touched; the message itself is the caller's
// responsibility.

// sensitiveKeys lists extra-field names whose string values are masked
// when redaction is enabled. Matching is case-insensitive.
var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"token":         true,
	"password":      true,
	"secret":        true,
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"bearer":        true,
	"cookie":        true,
	"session":       true,
	"session_id":    true,
	"sessionid":     true,
}

// redactValue masks string values for sensitive keys and email-shaped
// values. Non-string values pass through untouched.
func redactValue(key string, val any) any {
	s, ok := val.(string)
	if !ok {
		return val
	}
	if sensitiveKeys[strings.ToLower(key)] {
		return maskToken(s)
	}
	if strings.Contains(s, "@") && strings.Contains(s, ".") {
		return maskEmail(s)
	}
	return s
}

// maskToken keeps only the first and last 4 characters of a long value.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCJ9" -> "eyJh...cCJ9". Short values
// become "***".
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// maskEmail keeps a 2-character local prefix and the domain.
// Example: "john.doe@example.com" -> "jo***@example.com".
func maskEmail(email string) string {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}
	localPart := email[:atIndex]
	domain := email[atIndex:]
	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}
