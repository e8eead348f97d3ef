package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/process"
	"github.com/killallgit/parley/pkg/tui/chat/status"
)

type (
	errMsg error
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		statusModel, _ := m.statusBar.Update(msg)
		m.statusBar = statusModel.(status.StatusModel)

	case tea.KeyMsg:
		// All key handling happens in handleKeyMsg
		return handleKeyMsg(m, msg)

	case errMsg:
		m.err = msg
		return m, nil

	case StreamChunk:
		return m.handleStreamChunk(msg)

	default:
		statusModel, statusCmd := m.statusBar.Update(msg)
		m.statusBar = statusModel.(status.StatusModel)
		cmds = append(cmds, statusCmd)

		var tiCmd tea.Cmd
		m.textarea, tiCmd = m.textarea.Update(msg)
		cmds = append(cmds, tiCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// submit sends the typed message and hangs a placeholder in the transcript
// for the reply to stream into.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.textarea.Value())
	if value == "" || m.isStreaming {
		return m, nil
	}

	m.transcript.Append(chat.NewUserMessage(value))
	logger.LogChatHistory(chat.RoleUser, value)

	// The wire conversation is snapshotted before the placeholder goes in,
	// so the last message stays the user's.
	conv := chat.Conversation{Messages: m.transcript.Messages(), Model: m.model}
	placeholder := m.transcript.AppendPlaceholder()

	ctx, cancel := context.WithCancel(context.Background())
	m.isStreaming = true
	m.currentStream = placeholder.ID
	m.cancelStream = cancel

	m.textarea.Reset()
	m.textarea.SetHeight(1)
	m.updateViewportHeight()
	m.updateViewportContent()

	go m.startStream(ctx, placeholder.ID, conv)

	statusModel, statusCmd := m.statusBar.Update(status.StartStreamingMsg{State: process.StateThinking})
	m.statusBar = statusModel.(status.StatusModel)

	return m, tea.Batch(statusCmd, waitForChunk(m.updates))
}

// startStream runs one request against the server and feeds every snapshot
// back through the updates channel.
func (m chatModel) startStream(ctx context.Context, streamID string, conv chat.Conversation) {
	final := m.client.Send(ctx, conv, func(snapshot chat.Message) {
		m.updates <- StreamChunk{StreamID: streamID, Message: snapshot}
	})

	m.updates <- StreamChunk{StreamID: streamID, Message: final, IsEnd: true}
}

func (m chatModel) handleStreamChunk(msg StreamChunk) (tea.Model, tea.Cmd) {
	if msg.IsEnd {
		if msg.Message.IsError {
			m.transcript.MarkError(msg.StreamID, msg.Message.Content)
		} else {
			m.transcript.SetContent(msg.StreamID, msg.Message.Content)
		}
		logger.LogChatHistory(msg.Message.Role, msg.Message.Content)

		m.isStreaming = false
		m.currentStream = ""
		m.cancelStream = nil
		m.updateViewportContent()

		statusModel, _ := m.statusBar.Update(status.StopStreamingMsg{})
		m.statusBar = statusModel.(status.StatusModel)
		return m, nil
	}

	if msg.Message.IsError {
		m.transcript.MarkError(msg.StreamID, msg.Message.Content)
	} else {
		// First content flips the status bar from thinking to receiving
		if prev, ok := m.transcript.Get(msg.StreamID); ok && prev.Content == "" && msg.Message.Content != "" {
			statusModel, _ := m.statusBar.Update(status.SetProcessStateMsg{State: process.StateReceiving})
			m.statusBar = statusModel.(status.StatusModel)
		}
		m.transcript.SetContent(msg.StreamID, msg.Message.Content)
	}

	m.updateViewportContent()

	// Keep listening for the rest of the stream
	return m, waitForChunk(m.updates)
}

// waitForChunk blocks until the request goroutine produces its next chunk
func waitForChunk(ch <-chan StreamChunk) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
