package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsError   bool      `json:"isError,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPlaceholderMessage creates the empty assistant message that is appended
// before the network call resolves and mutated in place as chunks arrive.
func NewPlaceholderMessage() Message {
	return NewAssistantMessage("")
}

func NewErrorMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

func (m Message) WithContent(content string) Message {
	m.Content = content
	return m
}

// WithError replaces the content and marks the message as an error. The flag
// is one-way: callers never clear it once set.
func (m Message) WithError(content string) Message {
	m.Content = content
	m.IsError = true
	return m
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.Timestamp = t
	return m
}
