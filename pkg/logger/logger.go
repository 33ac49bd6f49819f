package logger

import (
	"fmt"
	"io"
	"os"

	charm "github.com/charmbracelet/log"

	errUtils "github.com/cloudposse/capnp-import/errors"
)

// Level is a charm log level extended with Trace and Off.
type Level = charm.Level

const (
	// TraceLevel is one step more verbose than charm's DebugLevel.
	TraceLevel Level = charm.DebugLevel - 1
	DebugLevel       = charm.DebugLevel
	InfoLevel        = charm.InfoLevel
	WarnLevel        = charm.WarnLevel
	ErrorLevel       = charm.ErrorLevel
	// OffLevel silences every message.
	OffLevel Level = charm.FatalLevel + 1
)

// Configured level names, as they appear in capnp-import.yaml and --logs-level.
const (
	LogLevelOff     = "Off"
	LogLevelTrace   = "Trace"
	LogLevelDebug   = "Debug"
	LogLevelInfo    = "Info"
	LogLevelWarning = "Warning"
	LogLevelError   = "Error"
)

// Logger wraps a charm logger and adds the Trace level.
type Logger struct {
	*charm.Logger
}

// NewLogger returns a Logger writing to w with the capnp-import styles.
func NewLogger(w io.Writer) *Logger {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: false,
		Level:           InfoLevel,
	})
	l.SetStyles(logStyles())
	return &Logger{Logger: l}
}

// NewLoggerFromConfig builds a Logger from a level name and a destination.
// The destination may be empty or "/dev/stderr" (stderr), "/dev/stdout", or a file path
// which is opened for appending. The returned closer must be called to release the file.
func NewLoggerFromConfig(level, file string) (*Logger, io.Closer, error) {
	parsed, err := ParseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch file {
	case "", "/dev/stderr":
	case "/dev/stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: open log file %s: %w", errUtils.ErrInvalidConfig, file, err)
		}
		w, closer = f, f
	}

	l := NewLogger(w)
	l.SetLevel(parsed)
	return l, closer, nil
}

// ParseLogLevel converts a configured level name into a Level. Empty means Info.
func ParseLogLevel(logLevel string) (Level, error) {
	switch logLevel {
	case "", LogLevelInfo:
		return InfoLevel, nil
	case LogLevelTrace:
		return TraceLevel, nil
	case LogLevelDebug:
		return DebugLevel, nil
	case LogLevelWarning:
		return WarnLevel, nil
	case LogLevelError:
		return ErrorLevel, nil
	case LogLevelOff:
		return OffLevel, nil
	default:
		return InfoLevel, fmt.Errorf("%w: invalid log level %q. Supported log levels are Trace, Debug, Info, Warning, Error, Off",
			errUtils.ErrInvalidConfig, logLevel)
	}
}

// Trace logs at TraceLevel.
func (l *Logger) Trace(msg any, keyvals ...any) {
	l.Log(TraceLevel, msg, keyvals...)
}

// Tracef logs a formatted message at TraceLevel.
func (l *Logger) Tracef(format string, args ...any) {
	l.Log(TraceLevel, fmt.Sprintf(format, args...))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
