package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromZap(LogLevelWarn, zap.New(core))

	l.Error("load failed: %s", "data.csv")
	l.Warn("skipping %s", "by_page")
	l.Info("hidden")
	l.Debug("hidden")
	l.Trace("hidden")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "load failed: data.csv", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "skipping by_page", entries[1].Message)
}

func TestTraceGoesOutAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromZap(LogLevelTrace, zap.New(core))

	l.Trace("row %d", 7)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[TRACE] row 7", logs.All()[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromZap(LogLevelInfo, zap.New(core)).With("run_id", "abc")

	l.Info("done")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["run_id"])
	assert.Equal(t, LogLevelInfo, l.GetLevel())
}
