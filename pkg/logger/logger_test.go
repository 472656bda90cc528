package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetup_Levels tests that the configured level becomes the global level.
func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"not-a-level", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := Setup(Config{Level: tt.level, Format: "json", Output: "discard"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

// TestSetup_TextFormat tests logger setup with text format.
func TestSetup_TextFormat(t *testing.T) {
	err := Setup(Config{Level: "info", Format: "text", Output: "stdout"})
	assert.NoError(t, err)
	assert.NotNil(t, Get())
}

// TestSetup_FileOutput tests logger setup with file output.
func TestSetup_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	err := Setup(Config{Level: "info", Format: "json", Output: "file", File: logFile})
	require.NoError(t, err)

	InfoEvent().Str("domain", "example.com").Msg("test message")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message")
	assert.Contains(t, string(content), `"domain":"example.com"`)
}

// TestSetup_FileOutputBadPath tests that an unwritable log file is reported.
func TestSetup_FileOutputBadPath(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "missing", "dir", "test.log")

	err := Setup(Config{Level: "info", Output: "file", File: logFile})
	assert.Error(t, err)
}

// TestLogLevelFiltering tests that events below the global level are dropped.
func TestLogLevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "filter.log")

	require.NoError(t, Setup(Config{Level: "warn", Format: "json", Output: "file", File: logFile}))

	DebugEvent().Msg("debug hidden")
	InfoEvent().Msg("info hidden")
	WarnEvent().Msg("warn shown")
	ErrorEvent().Msg("error shown")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), "warn shown")
	assert.Contains(t, string(content), "error shown")
}

// TestWithComponent tests component-scoped loggers.
func TestWithComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "component.log")
	require.NoError(t, Setup(Config{Level: "info", Format: "json", Output: "file", File: logFile}))

	WithComponent("store").Info().Msg("saved")
	Get().Info().Str("user_id", "user1").Msg("loaded")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"component":"store"`)
	assert.Contains(t, string(content), `"user_id":"user1"`)
}

// TestSetup_ReplacesLogFile tests that re-running Setup closes the previous file.
func TestSetup_ReplacesLogFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Setup(Config{Level: "info", Output: "file", File: first}))
	firstFile, ok := logFile.(*os.File)
	require.True(t, ok)

	require.NoError(t, Setup(Config{Level: "info", Output: "file", File: second}))
	InfoEvent().Msg("after reload")

	_, err := firstFile.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(content), "after reload")

	require.NoError(t, Close())
	assert.Nil(t, logFile)
	assert.NoError(t, Close(), "closing twice is a no-op")
}

// TestSetup_FailedReloadKeepsLogger tests that a bad file path leaves the
// current output in place.
func TestSetup_FailedReloadKeepsLogger(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.log")

	require.NoError(t, Setup(Config{Level: "info", Output: "file", File: good}))
	t.Cleanup(func() { _ = Close() })

	err := Setup(Config{Level: "debug", Output: "file", File: filepath.Join(dir, "missing", "x.log")})
	require.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	InfoEvent().Msg("still here")
	content, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Contains(t, string(content), "still here")
}
