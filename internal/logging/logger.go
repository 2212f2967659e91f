// Package logging provides leveled, structured logging for pixl.
//
// The editor core never fails on malformed sprite data; it repairs and reports
// through this package instead. Records are written with a log/slog text
// handler so repair warnings stay grep-able as key=value pairs.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Level represents a log level.
type Level int

const (
	// LevelDebug is for verbose debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for repaired data and other recoverable problems.
	LevelWarn
	// LevelError is for failures the user has to act on (e.g. a failed save).
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a level name (debug, info, warn, error) to a Level.
// Unknown names return LevelWarn and false.
func ParseLevel(name string) (Level, bool) {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug, true
	case "info", "INFO":
		return LevelInfo, true
	case "warn", "WARN", "warning":
		return LevelWarn, true
	case "error", "ERROR":
		return LevelError, true
	}
	return LevelWarn, false
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// sink is shared by a Logger and every Logger derived from it with With,
// so SetLevel and SetOutput on the root affect its children.
type sink struct {
	mu      sync.RWMutex
	level   slog.LevelVar
	handler slog.Handler
}

func newSink(w io.Writer) *sink {
	s := &sink{}
	s.level.Set(slog.LevelWarn)
	s.handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: &s.level})
	return s
}

// Logger provides structured logging with context fields.
type Logger struct {
	sink  *sink
	attrs []slog.Attr
}

var (
	defaultLogger = New()

	timeNow = time.Now
)

// New creates a Logger writing to stderr at warn level.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing to w at warn level.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{sink: newSink(w)}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.sink.level.Set(level.slog())
}

// SetOutput redirects all output, keeping the current level.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: &l.sink.level})
}

// Enabled reports whether records at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level.slog() >= l.sink.level.Level()
}

// With returns a new Logger with an additional context field.
func (l *Logger) With(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new Logger with multiple additional context fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	attrs := make([]slog.Attr, 0, len(l.attrs)+len(fields))
	attrs = append(attrs, l.attrs...)
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return &Logger{sink: l.sink, attrs: attrs}
}

func (l *Logger) log(level Level, msg string, keyVals ...any) {
	if !l.Enabled(level) {
		return
	}

	l.sink.mu.RLock()
	h := l.sink.handler
	l.sink.mu.RUnlock()

	rec := slog.NewRecord(timeNow(), level.slog(), msg, 0)
	rec.AddAttrs(l.attrs...)
	rec.Add(keyVals...)
	_ = h.Handle(context.Background(), rec)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyVals ...any) { l.log(LevelDebug, msg, keyVals...) }

// Info logs at info level.
func (l *Logger) Info(msg string, keyVals ...any) { l.log(LevelInfo, msg, keyVals...) }

// Warn logs at warn level (for repaired data).
func (l *Logger) Warn(msg string, keyVals ...any) { l.log(LevelWarn, msg, keyVals...) }

// Error logs at error level.
func (l *Logger) Error(msg string, keyVals ...any) { l.log(LevelError, msg, keyVals...) }

// Default returns the package-level logger.
func Default() *Logger { return defaultLogger }

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// SetOutput sets the output for the default logger.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// With returns a child of the default logger with an additional field.
func With(key string, value any) *Logger { return defaultLogger.With(key, value) }

// WithFields returns a child of the default logger with additional fields.
func WithFields(fields map[string]any) *Logger { return defaultLogger.WithFields(fields) }

// Debug logs at debug level using the default logger.
func Debug(msg string, keyVals ...any) { defaultLogger.Debug(msg, keyVals...) }

// Info logs at info level using the default logger.
func Info(msg string, keyVals ...any) { defaultLogger.Info(msg, keyVals...) }

// Warn logs at warn level using the default logger.
func Warn(msg string, keyVals ...any) { defaultLogger.Warn(msg, keyVals...) }

// Error logs at error level using the default logger.
func Error(msg string, keyVals ...any) { defaultLogger.Error(msg, keyVals...) }
