package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m chatModel) renderMessages() string {
	var rendered []string

	// Calculate available width for wrapping
	availableWidth := m.viewport.Width
	if availableWidth <= 0 {
		availableWidth = 80 // Default fallback
	}

	for _, msg := range m.transcript.Messages() {
		var style lipgloss.Style
		switch {
		case msg.IsError:
			style = m.styles.ErrorMessage
		case msg.IsUser():
			style = m.styles.UserMessage
		case msg.IsAssistant():
			style = m.styles.AssistantMessage
		default:
			style = m.styles.DefaultMessage
		}

		content := msg.Content
		if content == "" && msg.ID == m.currentStream {
			content = "…"
		}

		// Apply width constraint for word wrapping and add top padding
		style = style.Width(availableWidth).PaddingTop(1)
		rendered = append(rendered, style.Render(content))
	}

	return strings.Join(rendered, "\n\n")
}

func (m *chatModel) updateViewportContent() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}
