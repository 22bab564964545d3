// Package logger provides leveled logging for the ghpipe CLI.
// Warnings and progress are always printed to stderr; debug messages
// only when verbose mode is enabled via the --verbose flag.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	attrs   []any
	log     = build(output, verbose, attrs)
)

// writeMu serialises writes across handler rebuilds.
var writeMu sync.Mutex

type lockedWriter struct{ w io.Writer }

func (l lockedWriter) Write(p []byte) (int, error) {
	writeMu.Lock()
	defer writeMu.Unlock()
	return l.w.Write(p)
}

func build(w io.Writer, v bool, with []any) *slog.Logger {
	level := slog.LevelInfo
	if v {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(lockedWriter{w}, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(with...)
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build(output, verbose, attrs)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build(output, verbose, attrs)
}

// SetRunID attaches a run identifier to every subsequent record.
func SetRunID(id string) {
	mu.Lock()
	defer mu.Unlock()
	attrs = []any{slog.String("run", id)}
	log = build(output, verbose, attrs)
}

// Reset restores the default configuration.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	verbose = false
	output = os.Stderr
	attrs = nil
	log = build(output, verbose, attrs)
}

func emit(level slog.Level, format string, args ...any) {
	mu.RLock()
	l := log
	mu.RUnlock()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	emit(slog.LevelDebug, "=== %s ===", name)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	emit(slog.LevelError, format, args...)
}
