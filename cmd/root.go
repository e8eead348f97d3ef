package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/client"
	"github.com/killallgit/parley/pkg/config"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/provider"
	"github.com/killallgit/parley/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	serverURL    string
	providerName string
	modelName    string
	directPrompt string
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Streaming chat over OpenAI, Gemini and Ollama",
	Long: `Parley is a small chat relay. It serves a streaming HTTP API over
OpenAI, Gemini and Ollama backends, and ships two front ends for it:
a terminal UI (the default) and a plain REPL (parley chat).`,
	Run: func(cmd *cobra.Command, args []string) {
		cli, err := newClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// -p sends a single prompt and exits without entering the TUI
		if directPrompt != "" {
			if err := runOneShot(cmd.Context(), cli, directPrompt); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := logger.InitHistoryFile("", viper.GetBool("continue")); err != nil {
			logger.Warn("Chat history disabled: %v", err)
		}

		if err := tui.StartApp(cli, modelName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// runOneShot streams the reply for a single prompt to stdout.
func runOneShot(ctx context.Context, cli *client.Client, prompt string) error {
	conv := chat.AddMessage(chat.NewConversation(modelName), chat.NewUserMessage(prompt))

	printed := 0
	reply := cli.Send(ctx, conv, func(m chat.Message) {
		if m.IsError || len(m.Content) <= printed {
			return
		}
		fmt.Print(m.Content[printed:])
		printed = len(m.Content)
	})

	if reply.IsError {
		if printed > 0 {
			fmt.Println()
		}
		return fmt.Errorf("%s", reply.Content)
	}

	fmt.Println()
	return nil
}

// newClient builds the HTTP client both front ends share, resolving the
// provider kind and server address from flags and config.
func newClient() (*client.Client, error) {
	cfg := config.Get()

	name := providerName
	if name == "" {
		name = cfg.GetActiveProvider()
	}
	kind, err := provider.ParseKind(name)
	if err != nil {
		return nil, err
	}

	base := serverURL
	if base == "" {
		host := cfg.Server.Host
		if host == "" {
			host = "localhost"
		}
		base = fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
	}

	return client.New(base, kind), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default searches ./.parley then $XDG_CONFIG_HOME/parley)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "base URL of a running parley server (default derived from config)")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "P", "", "provider backend: openai, gemini or ollama (default from config)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "override the provider's default model for this session")
	rootCmd.Flags().StringVarP(&directPrompt, "prompt", "p", "", "send a single prompt, print the reply and exit")

	rootCmd.PersistentFlags().Bool("continue", false, "continue from previous chat history instead of starting fresh")
	viper.BindPFlag("continue", rootCmd.PersistentFlags().Lookup("continue"))
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
