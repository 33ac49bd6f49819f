package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/capnp-import/errors"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Level
		expectError bool
	}{
		{"Empty string returns Info", "", InfoLevel, false},
		{"Valid Trace level", "Trace", TraceLevel, false},
		{"Valid Debug level", "Debug", DebugLevel, false},
		{"Valid Info level", "Info", InfoLevel, false},
		{"Valid Warning level", "Warning", WarnLevel, false},
		{"Valid Error level", "Error", ErrorLevel, false},
		{"Valid Off level", "Off", OffLevel, false},
		{"Invalid lowercase level", "trace", 0, true},
		{"Invalid level", "Verbose", 0, true},
		{"Invalid spaces", "  ", 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			level, err := ParseLogLevel(test.input)
			if test.expectError {
				assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expected, level)
		})
	}
}

func TestTraceLevel_RelativeToDebug(t *testing.T) {
	assert.Equal(t, DebugLevel-1, TraceLevel)
	assert.Less(t, int(TraceLevel), int(DebugLevel))
	assert.Greater(t, int(OffLevel), int(ErrorLevel))
}

func TestLogger_TraceVisibility(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.SetLevel(TraceLevel)
	l.Trace("walking", "path", "schemas/a.capnp")
	assert.Contains(t, buf.String(), "walking")
	assert.Contains(t, buf.String(), "schemas/a.capnp")

	buf.Reset()
	l.SetLevel(DebugLevel)
	l.Tracef("hidden %d", 1)
	assert.Empty(t, buf.String())
}

func TestLogger_OffSilencesErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetLevel(OffLevel)

	l.Error("should not appear")
	assert.Empty(t, buf.String())
}

func TestNewLoggerFromConfig_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "capnp-import.log")

	l, closer, err := NewLoggerFromConfig("Debug", logFile)
	require.NoError(t, err)
	l.Debug("file logging test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file logging test")
}

func TestNewLoggerFromConfig_Errors(t *testing.T) {
	_, _, err := NewLoggerFromConfig("Loud", "")
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)

	_, _, err = NewLoggerFromConfig("Info", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(&buf))
	SetLevel(DebugLevel)

	Debug("debug message", "key", "value")
	Info("info message")
	Warn("warn message")
	Error("error message")
	Trace("trace message")

	out := buf.String()
	assert.Contains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.NotContains(t, out, "trace message")
	assert.Equal(t, DebugLevel, GetLevel())

	SetDefault(nil)
	assert.NotNil(t, Default())
}
