package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/stream"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI streams completions from the OpenAI chat API, or any
// OpenAI-compatible endpoint when BaseURL is set.
type OpenAI struct {
	llm   *openai.LLM
	model string
}

func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAI{
		llm:   llm,
		model: cfg.Model,
	}, nil
}

func (p *OpenAI) Name() string {
	return "OpenAI"
}

func (p *OpenAI) Model() string {
	return p.model
}

// Stream implements stream.Source.
func (p *OpenAI) Stream(ctx context.Context, conv chat.Conversation) (<-chan stream.Chunk, error) {
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

var _ Provider = (*OpenAI)(nil)
