package cmd

import (
	"github.com/killallgit/parley/pkg/config"
	"github.com/killallgit/parley/pkg/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat relay server",
	Long: `Start the HTTP server exposing the streaming chat API:

  POST /api/chat    OpenAI-backed chat, streamed as text/plain
  POST /api/gemini  Gemini-backed chat, streamed as text/plain
  POST /api/ollama  Ollama-backed chat, streamed as text/plain
  GET  /health      liveness probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.New(config.Get()).Run()
	},
}

func init() {
	serveCmd.Flags().String("host", "", "interface to bind")
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
