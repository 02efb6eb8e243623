package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger provides leveled logging on top of a slog text handler
type Logger struct {
	verbose atomic.Bool
	level   *slog.LevelVar
	log     *slog.Logger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(false, os.Stderr))
}

// New creates a new logger instance
func New(verbose bool, output io.Writer) *Logger {
	l := &Logger{level: new(slog.LevelVar)}
	l.log = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: l.level}))
	l.SetVerbose(verbose)
	return l
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger.Store(logger)
}

// Default returns the default logger instance
func Default() *Logger {
	return defaultLogger.Load()
}

// SetVerbose enables or disables verbose logging
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose.Store(verbose)
	if verbose {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
}

// IsVerbose returns whether verbose logging is enabled
func (l *Logger) IsVerbose() bool {
	return l.verbose.Load()
}

// Slog exposes the underlying structured logger
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

// Info logs an informational message (always shown)
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message (only shown if verbose is enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	// Skip formatting entirely on the hot scanning paths
	if !l.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Error logs an error message (always shown)
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

// Debugf is an alias for Debug
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(format, args...)
}

// Infof is an alias for Info
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(format, args...)
}

// Errorf is an alias for Error
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(format, args...)
}

// Package-level functions that use the default logger

// SetVerbose enables or disables verbose logging on the default logger
func SetVerbose(verbose bool) {
	Default().SetVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled on the default logger
func IsVerbose() bool {
	return Default().IsVerbose()
}

// Info logs an informational message using the default logger
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

// Debug logs a debug message using the default logger (only shown if verbose is enabled)
func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}

// Debugf is an alias for Debug
func Debugf(format string, args ...interface{}) {
	Debug(format, args...)
}

// Infof is an alias for Info
func Infof(format string, args ...interface{}) {
	Info(format, args...)
}

// Errorf is an alias for Error
func Errorf(format string, args ...interface{}) {
	Error(format, args...)
}
