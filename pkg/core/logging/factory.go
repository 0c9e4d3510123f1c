// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating component loggers
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	defaultConfig   = DefaultLoggerConfig("coachlcd")
	defaultConfigMu sync.RWMutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name, attached to every entry as "logger"
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format
	Format string // "json" or "text" (default: text)

	// Output writer (default: os.Stderr)
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// Configure sets the configuration used by New for all later loggers
func Configure(cfg LoggerConfig) {
	defaultConfigMu.Lock()
	defer defaultConfigMu.Unlock()
	defaultConfig = cfg
}

// Logger is a leveled structured logger taking key-value pairs
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
	name  string
}

// NewLogger creates a logger from an explicit configuration
func NewLogger(cfg LoggerConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := &slog.LevelVar{}
	level.Set(parseLevel(cfg.Level).slogLevel())

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		slog:  slog.New(handler).With("logger", cfg.ServiceName),
		level: level,
		name:  cfg.ServiceName,
	}
}

// New creates a logger for a component using the configured defaults
func New(name string) *Logger {
	defaultConfigMu.RLock()
	cfg := defaultConfig
	defaultConfigMu.RUnlock()

	cfg.ServiceName = name
	return NewLogger(cfg)
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	lv := &slog.LevelVar{}
	lv.Set(level.slogLevel())
	return &Logger{
		slog:  slog.New(&levelHandler{Handler: l.slog.Handler(), level: lv}),
		level: lv,
		name:  l.name,
	}
}

// WithFields returns a logger that adds the key-value pairs to every entry
func (l *Logger) WithFields(keysAndValues ...interface{}) *Logger {
	return &Logger{
		slog:  l.slog.With(toArgs(keysAndValues...)...),
		level: l.level,
		name:  l.name,
	}
}

// Enabled reports whether entries at level are written
func (l *Logger) Enabled(level Level) bool {
	return level.slogLevel() >= l.level.Level()
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.slog.Debug(msg, toArgs(keysAndValues...)...)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.slog.Info(msg, toArgs(keysAndValues...)...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.slog.Warn(msg, toArgs(keysAndValues...)...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.slog.Error(msg, toArgs(keysAndValues...)...)
}

// levelHandler overrides the level of a wrapped handler
type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

// parseLevel converts a string level to Level
func parseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

// toArgs drops pairs whose key is not a string and a trailing orphan value
func toArgs(keysAndValues ...interface{}) []any {
	if len(keysAndValues) == 0 {
		return nil
	}

	args := make([]any, 0, len(keysAndValues))
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		args = append(args, key, keysAndValues[i+1])
	}
	return args
}
