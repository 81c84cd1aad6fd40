package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "system.log")

	log, err := New(LevelInfo, logPath, false)
	require.NoError(t, err)

	log.Info("hello %s", "world")
	log.Debug("should be filtered")
	require.NoError(t, log.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO] hello world")
	assert.NotContains(t, string(content), "should be filtered")
}

func TestNewTruncatesUnlessPersist(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "system.log")
	require.NoError(t, os.WriteFile(logPath, []byte("old session\n"), 0644))

	log, err := New(LevelInfo, logPath, false)
	require.NoError(t, err)
	log.Info("fresh session")
	require.NoError(t, log.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old session")

	log, err = New(LevelInfo, logPath, true)
	require.NoError(t, err)
	log.Info("appended line")
	require.NoError(t, log.Close())

	content, err = os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fresh session")
	assert.Contains(t, string(content), "appended line")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLevel("debug"))
	assert.Equal(t, LevelWarn, parseLevel("warning"))
	assert.Equal(t, LevelError, parseLevel("error"))
	assert.Equal(t, LevelInfo, parseLevel("anything else"))
}

func TestPackageLevelFunctionsSafeWhenUninitialized(t *testing.T) {
	prev := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = prev }()

	assert.NotPanics(t, func() {
		Debug("no-op")
		Info("no-op")
		Warn("no-op")
		Error("no-op")
	})
}
