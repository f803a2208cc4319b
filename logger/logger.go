// Package logger provides the process-wide structured logger. The terminal
// editor owns the screen, so records go to a file unless InitWriter is used.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar)
	logFile    *os.File
	mu         sync.Mutex
	initDone   bool
	logPath    string
)

// DefaultLogPath returns the log file used when Init is never called.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "careermatrix.log")
}

// SetDebug enables debug level logging
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init opens path for appending and routes all records to it. Calling Init
// after the logger is initialized is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	return openLocked(path)
}

func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	slogLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true

	slogLogger.Info("Logger initialized", "path", path)
	return nil
}

// InitWriter routes records to w, e.g. stderr for the HTTP server.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	slogLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
	logPath = ""
	initDone = true
}

func ensureInit() {
	if initDone {
		return
	}
	if err := openLocked(DefaultLogPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		// Never retry on every call.
		slogLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		initDone = true
	}
}

// Path returns the active log file, or "" when logging to a writer.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	slogLogger = nil
	initDone = false
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// ComponentLogger returns a slog.Logger with the component attribute pre-attached.
//
//	log := logger.ComponentLogger("store")
//	log.Info("template saved", "id", id, "revision", rev)
func ComponentLogger(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	return slogLogger.With(slog.String("component", component))
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	return slogLogger
}

// Debug logs at debug level with printf-style formatting.
func Debug(format string, args ...interface{}) {
	logf(slog.LevelDebug, format, args...)
}

// Info logs at info level with printf-style formatting.
func Info(format string, args ...interface{}) {
	logf(slog.LevelInfo, format, args...)
}

// Error logs at error level with printf-style formatting.
func Error(format string, args ...interface{}) {
	logf(slog.LevelError, format, args...)
}

func logf(level slog.Level, format string, args ...interface{}) {
	l := Logger()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}
