package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/parley/pkg/client"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/tui/chat"
	"github.com/spf13/viper"
)

// StartApp runs the terminal chat front end against a parley server.
func StartApp(cli *client.Client, model string) error {
	ctx := context.Background()

	setupDebug()

	p := tea.NewProgram(
		chat.NewChatModel(cli, model),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

func setupDebug() {
	if viper.GetString("logging.level") == "debug" {
		// The file stays open for the lifetime of the program.
		if f, err := tea.LogToFile("parley-tui.log", "debug"); err == nil {
			logger.Debug("TUI debug log at %s", f.Name())
		}
	}
}
