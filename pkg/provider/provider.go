package provider

import (
	"errors"
	"time"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/stream"
	"github.com/tmc/langchaingo/llms"
)

// ErrMissingAPIKey is returned by constructors whose backend requires a
// credential. It must surface before any upstream call is made.
var ErrMissingAPIKey = errors.New("missing API key")

// Provider is a named stream source backed by one model API.
type Provider interface {
	stream.Source

	// Name is the display label used when formatting in-band errors.
	Name() string

	// Model is the configured model identifier.
	Model() string
}

// Config carries the per-provider connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// toMessageContent converts a conversation to LangChain message content.
// Only user and assistant turns exist; validation upstream guarantees it.
func toMessageContent(messages []chat.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		messageType := llms.ChatMessageTypeHuman
		if msg.IsAssistant() {
			messageType = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(messageType, msg.Content))
	}
	return out
}

// callOptions maps per-conversation settings onto LangChain call options.
// A conversation-level model overrides the one the client was built with.
func callOptions(conv chat.Conversation) []llms.CallOption {
	var opts []llms.CallOption
	if conv.Model != "" {
		opts = append(opts, llms.WithModel(conv.Model))
	}
	return opts
}
