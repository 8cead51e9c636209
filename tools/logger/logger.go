package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger provides structured logging for the drawing agent
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
	prefix   string
}

// New creates a new logger
func New(out io.Writer, minLevel Level, prefix string) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		out:      out,
		minLevel: minLevel,
		prefix:   prefix,
	}
}

// Default returns a default logger to stdout
func Default() *Logger {
	return New(os.Stdout, LevelInfo, "")
}

// WithPrefix creates a sub-logger with an additional prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "/" + prefix
	}
	return &Logger{
		out:      l.out,
		minLevel: l.minLevel,
		prefix:   newPrefix,
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	prefix := ""
	if l.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", l.prefix)
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %s %s%s\n", timestamp, level.String(), prefix, msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Step logs a named step with timing
func (l *Logger) Step(name string) func() {
	start := time.Now()
	l.Info("▶ Starting: %s", name)
	return func() {
		l.Info("✓ Completed: %s (took %v)", name, time.Since(start).Round(time.Millisecond))
	}
}

// Tokens logs token usage
func (l *Logger) Tokens(input, output int) {
	l.Info("📊 Tokens - Input: %d, Output: %d, Total: %d", input, output, input+output)
}

// Attempt logs one request/validation attempt
func (l *Logger) Attempt(n, max int, err error) {
	if err == nil {
		l.Info("✓ Attempt %d/%d accepted", n, max)
		return
	}
	l.Warn("✗ Attempt %d/%d rejected: %v", n, max, err)
}

// Instruction logs an accepted drawing instruction
func (l *Logger) Instruction(brush, mood string, strokes int) {
	if mood != "" {
		l.Info("🖌 Brush: %s, Mood: %s, Strokes: %d", brush, mood, strokes)
	} else {
		l.Info("🖌 Brush: %s, Strokes: %d", brush, strokes)
	}
}

// Replay logs a replay handoff result
func (l *Logger) Replay(success bool, path string, err error) {
	if success {
		l.Info("✓ Replayed to: %s", path)
	} else {
		l.Error("✗ Replay failed: %v", err)
	}
}
