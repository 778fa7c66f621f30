// Package logging provides structured logging using slog.
// Logs go to stderr so they never mix with report output on stdout.
package logging

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// defaultLogger is the package-level logger.
	defaultLogger *slog.Logger
	// mu protects concurrent access to the logger.
	mu sync.RWMutex
)

// Options selects the handler installed by Init.
type Options struct {
	// Debug lowers the level from warn to debug.
	Debug bool

	// JSON selects the JSON handler instead of the text one.
	JSON bool
}

// Init installs the package logger writing to w.
func Init(w io.Writer, opts Options) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	defaultLogger = slog.New(handler)
}

// Reset removes the installed logger.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = nil
}

// Logger returns the default logger.
// If not initialized, returns a no-op logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if defaultLogger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warning level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
