// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

package mypylogger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Environment variables recognized by the library.
const (
	EnvAppName      = "APP_NAME"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogToFile    = "LOG_TO_FILE"
	EnvLogFileDir   = "LOG_FILE_DIR"
	EnvRedactFields = "LOG_REDACT_FIELDS"
	EnvConfigFile   = "LOG_CONFIG_FILE"
)

// DefaultAppName is the last-resort logger name and the log-file prefix
// when APP_NAME is not set.
const DefaultAppName = "mypylogger"

// Config is the per-logger configuration record, resolved once when a
// logger name is first configured and immutable afterwards.
type Config struct {
	// AppName is the log-file prefix and the logger-name fallback.
	AppName string

	// Level is the minimum severity emitted.
	Level slog.Level

	// ToFile enables the best-effort file sink.
	ToFile bool

	// FileDir is the directory for the file sink.
	FileDir string

	// RedactFields masks sensitive extra fields when set.
	RedactFields bool
}

// rawConfig is the koanf unmarshal target. Fields stay string-typed so
// malformed input survives the load and can be sanitized afterwards
// instead of failing it.
type rawConfig struct {
	AppName      string `koanf:"app_name"`
	LogLevel     string `koanf:"log_level" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	LogToFile    string `koanf:"log_to_file"`
	LogFileDir   string `koanf:"log_file_dir"`
	RedactFields string `koanf:"log_redact_fields"`
}

func defaultRawConfig() rawConfig {
	return rawConfig{
		AppName:   DefaultAppName,
		LogLevel:  "INFO",
		LogToFile: "false",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// envKeyMap maps recognized environment variables to koanf paths. Unknown
// variables map to the empty string and are skipped, so ambient environment
// noise cannot leak into the configuration.
var envKeyMap = map[string]string{
	EnvAppName:      "app_name",
	EnvLogLevel:     "log_level",
	EnvLogToFile:    "log_to_file",
	EnvLogFileDir:   "log_file_dir",
	EnvRedactFields: "log_redact_fields",
}

// resolveConfig builds a Config from layered sources, highest priority
// last: built-in defaults, an optional YAML file named by LOG_CONFIG_FILE,
// then environment variables. It never fails; malformed values are replaced
// with safe defaults and reported on the diagnostics channel.
func resolveConfig() Config {
	return sanitizeConfig(loadRawConfig())
}

func loadRawConfig() rawConfig {
	defaults := defaultRawConfig()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		diagWarn().Err(err).Msg("loading configuration defaults failed")
		return defaults
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			diagWarn().Err(err).Str("path", path).Msg("config file ignored")
		}
	}

	if err := k.Load(env.Provider("", ".", func(key string) string {
		return envKeyMap[key]
	}), nil); err != nil {
		diagWarn().Err(err).Msg("loading environment variables failed")
	}

	raw := defaults
	if err := k.Unmarshal("", &raw); err != nil {
		diagWarn().Err(err).Msg("configuration unmarshal failed, using defaults")
		return defaults
	}
	return raw
}

// sanitizeConfig turns a raw load result into a valid Config. Every field
// has a safe default; nothing here can fail.
func sanitizeConfig(raw rawConfig) Config {
	cfg := Config{
		AppName:      strings.TrimSpace(raw.AppName),
		Level:        slog.LevelInfo,
		ToFile:       parseBoolToken(raw.LogToFile),
		FileDir:      strings.TrimSpace(raw.LogFileDir),
		RedactFields: parseBoolToken(raw.RedactFields),
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}

	level := strings.ToUpper(strings.TrimSpace(raw.LogLevel))
	if err := validate.Struct(rawConfig{LogLevel: level}); err != nil {
		diagWarn().Str("value", raw.LogLevel).Msg("unrecognized LOG_LEVEL, falling back to INFO")
	} else {
		cfg.Level = parseLevel(level)
	}

	if cfg.FileDir == "" {
		cfg.FileDir = os.TempDir()
	}
	return cfg
}

// parseBoolToken reports whether v is one of the accepted truthy tokens
// (true, 1, yes; case-insensitive). Everything else, malformed input
// included, is false.
func parseBoolToken(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
