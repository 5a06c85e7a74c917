package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
}

func TestCLIHandler_Enabled(t *testing.T) {
	h := NewCLIHandler(&bytes.Buffer{}, slog.LevelInfo)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestCLIHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelDebug))

	logger.Info("samples imported", "count", 42)

	out := buf.String()
	assert.Contains(t, out, "samples imported")
	assert.Contains(t, out, "count=42")
}

func TestCLIHandler_LevelColors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelDebug))

	logger.Error("broken")
	assert.Contains(t, buf.String(), colorRed)

	buf.Reset()
	logger.Warn("degraded")
	assert.Contains(t, buf.String(), colorYellow)

	buf.Reset()
	logger.Info("fine")
	assert.Contains(t, buf.String(), colorGreen)
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelDebug).WithGroup("tuner")
	logger := slog.New(h)

	logger.Info("done")
	assert.Contains(t, buf.String(), "[tuner]")
}

func TestNewCLILogger(t *testing.T) {
	logger := NewCLILogger("debug")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
