package provider

import (
	"context"
	"fmt"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/stream"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama streams completions from a local Ollama server. No credential
// is required, only a reachable host.
type Ollama struct {
	llm   *ollama.LLM
	model string
}

func NewOllama(cfg Config) (*Ollama, error) {
	opts := []ollama.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &Ollama{
		llm:   llm,
		model: cfg.Model,
	}, nil
}

func (p *Ollama) Name() string {
	return "Ollama"
}

func (p *Ollama) Model() string {
	return p.model
}

func (p *Ollama) Stream(ctx context.Context, conv chat.Conversation) (<-chan stream.Chunk, error) {
	if err := chat.Validate(conv); err != nil {
		return nil, err
	}

	messages := toMessageContent(chat.GetMessages(conv))
	opts := callOptions(conv)

	return stream.Open(ctx, func(ctx context.Context, handler stream.Handler) error {
		_, err := p.llm.GenerateContent(ctx, messages,
			append(opts, llms.WithStreamingFunc(stream.ToStreamingFunc(handler)))...)
		return err
	}), nil
}

var _ Provider = (*Ollama)(nil)
