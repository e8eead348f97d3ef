package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("should filter messages below the configured level", func(t *testing.T) {
		logPath := filepath.Join(tmpDir, "filtered.log")

		l, err := New(LevelWarn, logPath, false)
		require.NoError(t, err)

		l.Debug("debug line")
		l.Info("info line")
		l.Warn("warn line")
		l.Error("error line")

		require.NoError(t, l.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)

		assert.NotContains(t, string(content), "debug line")
		assert.NotContains(t, string(content), "info line")
		assert.Contains(t, string(content), "[WARN] warn line")
		assert.Contains(t, string(content), "[ERROR] error line")
	})

	t.Run("should truncate the log file when preserve is false", func(t *testing.T) {
		logPath := filepath.Join(tmpDir, "truncated.log")
		require.NoError(t, os.WriteFile(logPath, []byte("stale content\n"), 0644))

		l, err := New(LevelInfo, logPath, false)
		require.NoError(t, err)

		l.Info("fresh line")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)

		assert.NotContains(t, string(content), "stale content")
		assert.Contains(t, string(content), "fresh line")
	})

	t.Run("should append to the log file when preserve is true", func(t *testing.T) {
		logPath := filepath.Join(tmpDir, "preserved.log")
		require.NoError(t, os.WriteFile(logPath, []byte("old session\n"), 0644))

		l, err := New(LevelInfo, logPath, true)
		require.NoError(t, err)

		l.Info("new session")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)

		assert.Contains(t, string(content), "old session")
		assert.Contains(t, string(content), "new session")
	})

	t.Run("should create the log directory if it doesn't exist", func(t *testing.T) {
		logPath := filepath.Join(tmpDir, "nested", "dir", "system.log")

		l, err := New(LevelInfo, logPath, false)
		require.NoError(t, err)
		require.NoError(t, l.Close())

		_, err = os.Stat(logPath)
		assert.NoError(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLevel("debug"))
	assert.Equal(t, LevelInfo, parseLevel("info"))
	assert.Equal(t, LevelWarn, parseLevel("warn"))
	assert.Equal(t, LevelWarn, parseLevel("warning"))
	assert.Equal(t, LevelError, parseLevel("error"))
	assert.Equal(t, LevelFatal, parseLevel("fatal"))
	assert.Equal(t, LevelInfo, parseLevel("unknown"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "FATAL", LevelFatal.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestPackageLevelFunctionsWithoutInit(t *testing.T) {
	// Must not panic when no default logger exists
	defaultLogger = nil
	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestInitHistoryFile(t *testing.T) {
	tmpDir := t.TempDir()
	historyPath := filepath.Join(tmpDir, "test.history")

	t.Run("should create new history file when continue is false", func(t *testing.T) {
		// Write some initial content
		err := os.WriteFile(historyPath, []byte("existing content\n"), 0644)
		require.NoError(t, err)

		// Initialize with continue=false (should truncate)
		err = InitHistoryFile(historyPath, false)
		require.NoError(t, err)

		// Close the file so we can read it
		err = Close()
		require.NoError(t, err)

		// Read the file
		content, err := os.ReadFile(historyPath)
		require.NoError(t, err)

		// Should contain only the new session marker
		assert.Contains(t, string(content), "Parley Chat Session Started")
		assert.NotContains(t, string(content), "existing content")
	})

	t.Run("should append to existing history when continue is true", func(t *testing.T) {
		// Write some initial content
		initialContent := "=== Previous Session ===\nOld chat history\n"
		err := os.WriteFile(historyPath, []byte(initialContent), 0644)
		require.NoError(t, err)

		// Initialize with continue=true (should append)
		err = InitHistoryFile(historyPath, true)
		require.NoError(t, err)

		// Close the file so we can read it
		err = Close()
		require.NoError(t, err)

		// Read the file
		content, err := os.ReadFile(historyPath)
		require.NoError(t, err)

		// Should contain both old and new content
		assert.Contains(t, string(content), "Previous Session")
		assert.Contains(t, string(content), "Old chat history")
		assert.Contains(t, string(content), "Parley Chat Session Continued")
	})

	t.Run("should create directory if it doesn't exist", func(t *testing.T) {
		// Use a nested path that doesn't exist
		nestedPath := filepath.Join(tmpDir, "nested", "dir", "test.history")

		err := InitHistoryFile(nestedPath, false)
		require.NoError(t, err)

		// Close the file
		err = Close()
		require.NoError(t, err)

		// Check that the file was created
		_, err = os.Stat(nestedPath)
		assert.NoError(t, err)
	})

	t.Run("should handle empty path with default", func(t *testing.T) {
		// Temporarily change working directory to temp dir
		oldWd, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(oldWd)

		err = os.Chdir(tmpDir)
		require.NoError(t, err)

		// Initialize with empty path
		err = InitHistoryFile("", false)
		require.NoError(t, err)

		// Close the file
		err = Close()
		require.NoError(t, err)

		// Check that default path was used
		_, err = os.Stat(".parley/logs/chat.history")
		assert.NoError(t, err)
	})
}

func TestLogChatHistory(t *testing.T) {
	tmpDir := t.TempDir()
	historyPath := filepath.Join(tmpDir, "test.history")

	// Initialize the history file first
	err := InitHistoryFile(historyPath, false)
	require.NoError(t, err)

	t.Run("should log chat messages", func(t *testing.T) {
		// Log some messages
		err := LogChatHistory("user", "Hello, how are you?")
		require.NoError(t, err)

		err = LogChatHistory("assistant", "I'm doing well, thank you!")
		require.NoError(t, err)

		// Close and read the file
		err = Close()
		require.NoError(t, err)

		content, err := os.ReadFile(historyPath)
		require.NoError(t, err)

		// Check content
		lines := strings.Split(string(content), "\n")
		foundUser := false
		foundAssistant := false

		for _, line := range lines {
			if strings.Contains(line, "user:") && strings.Contains(line, "Hello, how are you?") {
				foundUser = true
			}
			if strings.Contains(line, "assistant:") && strings.Contains(line, "I'm doing well, thank you!") {
				foundAssistant = true
			}
		}

		assert.True(t, foundUser, "User message not found in history")
		assert.True(t, foundAssistant, "Assistant message not found in history")
	})

	t.Run("should be a no-op without an open history file", func(t *testing.T) {
		assert.NoError(t, LogChatHistory("user", "dropped"))
	})
}
