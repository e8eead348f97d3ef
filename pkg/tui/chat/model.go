package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/client"
	"github.com/killallgit/parley/pkg/tui/chat/status"
	"github.com/killallgit/parley/pkg/tui/theme"
)

type chatModel struct {
	client     *client.Client
	model      string
	transcript *chat.Transcript

	viewport  viewport.Model
	textarea  textarea.Model
	statusBar status.StatusModel
	styles    *theme.Styles

	updates       chan StreamChunk
	isStreaming   bool
	currentStream string
	cancelStream  context.CancelFunc

	err         error
	width       int
	height      int
	numEscPress int
}

func NewChatModel(cli *client.Client, model string) chatModel {
	ta := textarea.New()
	ta.Focus()
	ta.Placeholder = "Type a message..."
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(true)
	vp := viewport.New(80, 20)

	return chatModel{
		client:     cli,
		model:      model,
		transcript: chat.NewTranscript(),
		textarea:   ta,
		viewport:   vp,
		statusBar:  status.NewStatusModel(),
		styles:     theme.DefaultStyles(),
		updates:    make(chan StreamChunk, 16),
	}
}
