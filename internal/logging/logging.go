// Package logging provides structured logging with subsystem tags, built on
// the standard library's slog package.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init configures the global logger with the given level and output writer.
func Init(level slog.Level, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a level name into a slog.Level. Unknown names
// default to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message for the given subsystem.
func Debug(subsystem, format string, args ...any) {
	current().Debug(fmt.Sprintf(format, args...), "subsystem", subsystem)
}

// Info logs an informational message for the given subsystem.
func Info(subsystem, format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...), "subsystem", subsystem)
}

// Warn logs a warning message for the given subsystem.
func Warn(subsystem, format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...), "subsystem", subsystem)
}

// Error logs an error for the given subsystem. err may be nil.
func Error(subsystem string, err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		current().Error(msg, "subsystem", subsystem, "error", err)
		return
	}
	current().Error(msg, "subsystem", subsystem)
}
