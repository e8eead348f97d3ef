package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the model from a plain terminal",
	Long: `Start a conversational session against a running parley server.
Context carries over between messages, and replies stream in token
by token.

Type 'exit' or 'quit' to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := cli.Health(ctx); err != nil {
			return fmt.Errorf("cannot reach server (is 'parley serve' running?): %w", err)
		}

		if err := logger.InitHistoryFile("", viper.GetBool("continue")); err != nil {
			logger.Warn("Chat history disabled: %v", err)
		}

		cyan := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)

		fmt.Fprintln(os.Stderr)
		cyan.Fprintln(os.Stderr, "  parley chat")
		dim.Fprintf(os.Stderr, "  %s via %s\n", cli.Kind().Label(), cli.BaseURL())
		dim.Fprintf(os.Stderr, "  Type 'exit' to quit.\n\n")

		scanner := bufio.NewScanner(os.Stdin)
		conv := chat.NewConversation(modelName)

		for {
			green.Fprint(os.Stderr, "  you → ")
			if !scanner.Scan() {
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" || input == "bye" {
				dim.Fprintf(os.Stderr, "\n  Bye!\n\n")
				break
			}

			conv = chat.AddMessage(conv, chat.NewUserMessage(input))
			logger.LogChatHistory(chat.RoleUser, input)

			sp := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
			sp.Suffix = "  Thinking..."
			sp.Color("cyan")
			sp.Start()

			// Print each snapshot's tail so the reply streams in place.
			// Error snapshots are left to the final message below.
			printed := 0
			first := true
			reply := cli.Send(ctx, conv, func(m chat.Message) {
				if m.IsError || len(m.Content) <= printed {
					return
				}
				if first {
					sp.Stop()
					cyan.Fprint(os.Stderr, "  parley → ")
					first = false
				}
				fmt.Fprint(os.Stderr, m.Content[printed:])
				printed = len(m.Content)
			})
			sp.Stop()

			conv = chat.AddMessage(conv, reply)
			logger.LogChatHistory(reply.Role, reply.Content)

			if reply.IsError {
				if !first {
					fmt.Fprintln(os.Stderr)
				}
				red.Fprintf(os.Stderr, "  ✗ %s\n\n", reply.Content)
				continue
			}

			fmt.Fprint(os.Stderr, "\n\n")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
