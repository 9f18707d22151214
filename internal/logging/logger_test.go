package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTest = errors.New("boom")

func TestStdLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(LevelWarn, &buf)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[WARN] shown")
}

func TestStdLoggerIncludesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(LevelDebug, &buf).WithFields(Field("component", "apply"))

	logger.Error("write failed", errTest, Field("path", "a.txt"))

	out := buf.String()
	require.Contains(t, out, "[ERROR]")
	require.Contains(t, out, `[error="boom"]`)
	require.Contains(t, out, "component=apply")
	require.Contains(t, out, "path=a.txt")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel(""))
	require.Equal(t, LevelInfo, ParseLevel("bogus"))
	require.Equal(t, LevelDebug, ParseLevel("debug"))
	require.Equal(t, LevelWarn, ParseLevel("Warning"))
	require.Equal(t, LevelError, ParseLevel("ERROR"))
}
