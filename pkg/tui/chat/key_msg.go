package chat

import (
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.cancelStream != nil {
			m.cancelStream()
		}
		return m, tea.Quit

	case tea.KeyEscape:
		if m.isStreaming {
			// Abort the in-flight request; its failure lands in the
			// transcript like any other stream error.
			if m.cancelStream != nil {
				m.cancelStream()
			}
			return m, nil
		}
		m.numEscPress++
		if m.numEscPress == 2 {
			m.textarea.Reset()
			m.numEscPress = 0
			return m, nil
		}

	case tea.KeyEnter:
		if msg.Alt {
			// Alt+Enter adds a newline
			break
		}
		return m.submit()
	}

	// Let the textarea handle the key
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	// Recalculate and update height after any key input
	newHeight := m.calculateTextAreaHeight()
	if m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.updateViewportHeight()
	}

	return m, cmd
}
