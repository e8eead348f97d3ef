package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultHistoryPath = ".parley/logs/chat.history"

var historyFile *os.File

// InitHistoryFile opens the chat history file. A fresh session truncates
// any previous history; a continued session appends to it.
func InitHistoryFile(path string, continueSession bool) error {
	if path == "" {
		path = defaultHistoryPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	marker := "Parley Chat Session Started"
	if continueSession {
		flags |= os.O_APPEND
		marker = "Parley Chat Session Continued"
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}

	historyFile = file
	if _, err := fmt.Fprintf(file, "=== %s at %s ===\n", marker, time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to write session marker: %w", err)
	}
	return nil
}

// LogChatHistory appends one chat turn to the history file. A no-op when
// no history file has been initialized.
func LogChatHistory(role, content string) error {
	if historyFile == nil {
		return nil
	}

	_, err := fmt.Fprintf(historyFile, "[%s] %s: %s\n", time.Now().Format("15:04:05"), role, content)
	return err
}

func closeHistory() error {
	if historyFile == nil {
		return nil
	}

	err := historyFile.Close()
	historyFile = nil
	return err
}
