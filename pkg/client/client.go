package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/provider"
	"github.com/killallgit/parley/pkg/stream"
)

// routes maps provider kinds onto their server paths.
var routes = map[provider.Kind]string{
	provider.KindOpenAI: "/api/chat",
	provider.KindGemini: "/api/gemini",
	provider.KindOllama: "/api/ollama",
}

// Client posts conversations to a parley server and consumes the streamed
// reply chunk by chunk.
type Client struct {
	baseURL string
	kind    provider.Kind
	http    *http.Client
}

// New creates a client for one provider route. The underlying HTTP client
// carries no timeout; streams run as long as the model talks and
// cancellation comes from the caller's context.
func New(baseURL string, kind provider.Kind) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		kind:    kind,
		http:    &http.Client{},
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Kind returns the provider backend requests are routed to.
func (c *Client) Kind() provider.Kind {
	return c.kind
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
	Model    string         `json:"model,omitempty"`
}

// Send posts the conversation and streams the reply into a fresh assistant
// message. onUpdate, when non-nil, observes every partial snapshot. Every
// failure path resolves to a message marked as an error, so the returned
// message is always displayable.
func (c *Client) Send(ctx context.Context, conv chat.Conversation, onUpdate func(chat.Message)) chat.Message {
	consumer := stream.NewConsumer(chat.NewPlaceholderMessage(), c.kind.Label(), onUpdate)

	payload, err := json.Marshal(chatRequest{
		Messages: chat.GetMessages(conv),
		Model:    conv.Model,
	})
	if err != nil {
		return consumer.Fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+routes[c.kind], bytes.NewReader(payload))
	if err != nil {
		return consumer.Fail(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("chat request failed: %v", err)
		return consumer.Fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return consumer.FailHTTP(resp.Status, body)
	}

	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if !consumer.Feed(buf[:n]) {
				break
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			logger.Debug("chat stream interrupted: %v", readErr)
			return consumer.Fail(readErr)
		}
	}

	return consumer.Finish()
}

// Health checks whether the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", resp.Status)
	}
	return nil
}
