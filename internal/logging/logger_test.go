package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New()
	logger.SetLevel(level)
	logger.SetOutput(log.New(&buf, "", 0))
	return logger, &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug allowed at debug", LevelDebug, LevelDebug, true},
		{"error allowed at debug", LevelDebug, LevelError, true},
		{"debug blocked at info", LevelInfo, LevelDebug, false},
		{"info allowed at info", LevelInfo, LevelInfo, true},
		{"info blocked at warn", LevelWarn, LevelInfo, false},
		{"warn allowed at warn", LevelWarn, LevelWarn, true},
		{"warn blocked at error", LevelError, LevelWarn, false},
		{"error allowed at error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.minLevel)

			switch tt.logLevel {
			case LevelDebug:
				logger.Debug("frame shown")
			case LevelInfo:
				logger.Info("frame shown")
			case LevelWarn:
				logger.Warn("frame shown")
			case LevelError:
				logger.Error("frame shown")
			}

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "frame shown")
			} else {
				assert.Empty(t, buf.String())
			}
			assert.Equal(t, tt.shouldLog, logger.Enabled(tt.logLevel))
		})
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.WithFields(map[string]interface{}{
		"id":        "p1",
		"component": "player",
	}).Info("loaded", "frames", 30)

	assert.Equal(t, "INFO: loaded | component=player frames=30 id=p1\n", buf.String())
}

func TestLoggerChildSharesLevel(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)
	child := logger.With("component", "preload")

	child.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelDebug)
	child.Debug("visible")
	assert.Contains(t, buf.String(), "DEBUG: visible | component=preload")
}

func TestLoggerParentUnmodified(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	_ = logger.With("clip", "intro")
	logger.Info("parent")

	assert.NotContains(t, buf.String(), "clip=intro")
}

func TestLoggerInlineKeyVals(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.Warn("clip rejected", "error", errors.New("clip out of range"), "end", 99)

	output := buf.String()
	assert.Contains(t, output, `error="clip out of range"`)
	assert.Contains(t, output, "end=99")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"simple string", "intro", "intro"},
		{"string with spaces", "image 3", `"image 3"`},
		{"empty string", "", `""`},
		{"integer", 42, "42"},
		{"error", errors.New("oops"), `"oops"`},
		{"stringer", LevelInfo, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "Warn", "warning", "error"} {
		t.Run(name, func(t *testing.T) {
			level, err := ParseLevel(name)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(strings.ToUpper(name), level.String()[:4]))
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	SetLevel(LevelWarn)

	Debug("debug message")
	assert.Empty(t, buf.String())

	Warn("warn message")
	assert.Contains(t, buf.String(), "WARN: warn message")

	buf.Reset()
	With("component", "test").Error("error message")
	assert.Contains(t, buf.String(), "component=test")
}
