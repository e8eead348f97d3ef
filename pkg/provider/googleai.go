package provider

import (
	"context"
	"fmt"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/stream"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Gemini streams completions from the Google Generative AI API.
type Gemini struct {
	llm   *googleai.GoogleAI
	model string
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []googleai.Option{googleai.WithAPIKey(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.Model))
	}

	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		llm:   llm,
		model: cfg.Model,
	}, nil
}

func (p *Gemini) Name() string {
	return "Gemini"
}

func (p *Gemini) Model() string {
	return p.model
}

// Stream implements stream.Source. The Gemini API separates history from
// the current turn, so the last-message-is-user rule matters here most.
func (p *Gemini) Stream(ctx context.Context, conv chat.Conversation) (<-chan stream.Chunk, error) {
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

var _ Provider = (*Gemini)(nil)
