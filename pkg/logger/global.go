package logger

import (
	"io"
	"os"
	"sync/atomic"
)

// defaultLogger holds the process-wide *Logger.
var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(NewLogger(os.Stderr))
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger.Load().(*Logger)
}

// SetDefault replaces the process-wide logger. Nil is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// SetLevel sets the level of the process-wide logger.
func SetLevel(level Level) { Default().SetLevel(level) }

// GetLevel returns the level of the process-wide logger.
func GetLevel() Level { return Default().GetLevel() }

// SetOutput redirects the process-wide logger.
func SetOutput(w io.Writer) { Default().SetOutput(w) }

func Trace(msg any, keyvals ...any) { Default().Trace(msg, keyvals...) }

func Tracef(format string, args ...any) { Default().Tracef(format, args...) }

func Debug(msg any, keyvals ...any) { Default().Debug(msg, keyvals...) }

func Info(msg any, keyvals ...any) { Default().Info(msg, keyvals...) }

func Warn(msg any, keyvals ...any) { Default().Warn(msg, keyvals...) }

func Error(msg any, keyvals ...any) { Default().Error(msg, keyvals...) }
