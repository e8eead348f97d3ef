package provider

import (
	"context"
	"fmt"
)

// Kind selects which backend a provider talks to.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
	KindOllama Kind = "ollama"
)

// Label returns the display name used when formatting provider errors.
func (k Kind) Label() string {
	switch k {
	case KindOpenAI:
		return "OpenAI"
	case KindGemini:
		return "Gemini"
	case KindOllama:
		return "Ollama"
	default:
		return string(k)
	}
}

// ParseKind maps a configured provider name onto its kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindOpenAI, KindGemini, KindOllama:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("unknown provider kind: %q", name)
	}
}

// New builds the provider for the given kind. Credential checks happen
// inside each constructor so callers can map ErrMissingAPIKey uniformly.
func New(ctx context.Context, kind Kind, cfg Config) (Provider, error) {
	switch kind {
	case KindOpenAI:
		return NewOpenAI(cfg)
	case KindGemini:
		return NewGemini(ctx, cfg)
	case KindOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown provider kind: %q", kind)
	}
}
