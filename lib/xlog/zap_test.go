package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xset/lib/infra"
)

func newMemLogger(t *testing.T, lvl LogLevel) (XLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(lvl),
		WithXLoggerConsoleCore(),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	res := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		res = append(res, entry)
	}
	return res
}

func TestLogLevel_zapLevel(t *testing.T) {
	testcases := []struct {
		lvl      LogLevel
		expected zapcore.Level
	}{
		{LogLevelDebug, zapcore.DebugLevel},
		{LogLevelInfo, zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{LogLevelError, zapcore.ErrorLevel},
		{"", zapcore.DebugLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		t.Run(tc.lvl.String(), func(tt *testing.T) {
			require.Equal(tt, tc.expected, tc.lvl.zapLevel())
		})
	}
}

func TestXLogger_LevelFilter(t *testing.T) {
	logger, buf := newMemLogger(t, LogLevelInfo)
	logger.Debug("dropped")
	logger.Info("kept", zap.Int64("len", 5))
	logger.Warn("kept too")
	require.NoError(t, logger.Sync())

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	require.Equal(t, "kept", entries[0]["msg"])
	require.Equal(t, "INFO", entries[0]["lvl"])
	require.Equal(t, float64(5), entries[0]["len"])
	require.Equal(t, "WARN", entries[1]["lvl"])

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	logger.Warn("dropped")
	logger.Error(errors.New("boom"), "kept")
	entries = decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "boom", entries[0]["error"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, buf := newMemLogger(t, LogLevelDebug)
	logger.ErrorStack(infra.NewErrorStack("rbset red violation"), "validate")
	logger.ErrorStack(errors.New("plain"), "validate")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	require.Equal(t, "rbset red violation", entries[0]["error"])
	frames, ok := entries[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Equal(t, "plain", entries[1]["error"])
	require.NotContains(t, entries[1], "errorStack")
}

func TestXLogger_NamedAndLogf(t *testing.T) {
	logger, buf := newMemLogger(t, LogLevelDebug)
	logger.Named("rbset").Logf(zapcore.InfoLevel, "released %d nodes", 3)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "rbset", entries[0]["component"])
	require.Equal(t, "released 3 nodes", entries[0]["msg"])
}

func TestXLogger_InvalidOption(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	logger.Error(errors.New("ignored"), "nothing")
	logger.Named("x").Debug("nothing")
	require.NoError(t, logger.Sync())
}
