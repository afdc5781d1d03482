package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// ParseLevel converts a level name (debug, info, warn, error) into a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug, nil
	case "info", "INFO", "":
		return LevelInfo, nil
	case "warn", "WARN", "warning":
		return LevelWarn, nil
	case "error", "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LogEntry is the structured log entry delivered in capture mode.
type LogEntry struct {
	Timestamp  time.Time
	Level      LogLevel
	Subsystem  string
	Message    string
	Err        error
	Attributes []slog.Attr
}

var (
	mu             sync.RWMutex
	defaultLogger  *slog.Logger
	captureChannel chan LogEntry
	captureLevel   LogLevel
	isCaptureMode  bool
)

const captureChannelBufferSize = 1024

// InitForCLI initializes the logging system to write text records to output.
// This should be called once at application startup.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{
		Level: filterLevel.SlogLevel(),
	}
	defaultLogger = slog.New(slog.NewTextHandler(output, opts))
	captureChannel = nil
	isCaptureMode = false
}

// InitForCapture routes every entry at or above filterLevel to the returned
// channel. Entries are dropped (with a note on stderr) once the buffer is full.
func InitForCapture(filterLevel LogLevel, bufferSize int) <-chan LogEntry {
	mu.Lock()
	defer mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = captureChannelBufferSize
	}
	captureChannel = make(chan LogEntry, bufferSize)
	captureLevel = filterLevel
	isCaptureMode = true
	// Direct slog output is discarded while capturing.
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return captureChannel
}

// Reset returns the package to its uninitialised state, in which Warn and
// Error still reach stderr and everything else is discarded.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	defaultLogger = nil
	captureChannel = nil
	isCaptureMode = false
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	if isCaptureMode {
		if level < captureLevel || captureChannel == nil {
			return
		}
	} else if defaultLogger == nil {
		if level < LevelWarn {
			return
		}
	} else if !defaultLogger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	now := time.Now()

	if isCaptureMode {
		entry := LogEntry{
			Timestamp: now,
			Level:     level,
			Subsystem: subsystem,
			Message:   msg,
			Err:       err,
		}
		select {
		case captureChannel <- entry:
		default:
			fmt.Fprintf(os.Stderr, "[LOGGING_CRITICAL] capture channel full. Dropping: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		}
		return
	}

	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n", now.Format(time.RFC3339), level, subsystem, msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
		return
	}

	var slogAttrs []slog.Attr
	slogAttrs = append(slogAttrs, slog.String("subsystem", subsystem))
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}

// Drain returns every entry currently buffered on a capture channel without
// blocking.
func Drain(entries <-chan LogEntry) []LogEntry {
	var out []LogEntry
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}
