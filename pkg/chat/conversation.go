package chat

import "errors"

var (
	ErrEmptyConversation = errors.New("conversation has no messages")
	ErrUnknownRole       = errors.New("message role must be user or assistant")
	ErrLastNotUser       = errors.New("last message must be from the user")
)

type Conversation struct {
	Messages []Message
	Model    string
}

func NewConversation(model string) Conversation {
	return Conversation{
		Messages: make([]Message, 0),
		Model:    model,
	}
}

func AddMessage(conv Conversation, msg Message) Conversation {
	messages := make([]Message, len(conv.Messages)+1)
	copy(messages, conv.Messages)
	messages[len(conv.Messages)] = msg

	return Conversation{
		Messages: messages,
		Model:    conv.Model,
	}
}

func GetMessages(conv Conversation) []Message {
	result := make([]Message, len(conv.Messages))
	copy(result, conv.Messages)
	return result
}

func GetMessageCount(conv Conversation) int {
	return len(conv.Messages)
}

func GetLastMessage(conv Conversation) (Message, bool) {
	if len(conv.Messages) == 0 {
		return Message{}, false
	}
	return conv.Messages[len(conv.Messages)-1], true
}

func GetLastUserMessage(conv Conversation) (Message, bool) {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.IsUser() {
			return msg, true
		}
	}
	return Message{}, false
}

func IsEmpty(conv Conversation) bool {
	return len(conv.Messages) == 0
}

func WithModel(conv Conversation, model string) Conversation {
	return Conversation{
		Messages: conv.Messages,
		Model:    model,
	}
}

// Validate checks the shape every provider call requires: a non-empty
// ordered history of user/assistant turns ending with the user's.
func Validate(conv Conversation) error {
	if len(conv.Messages) == 0 {
		return ErrEmptyConversation
	}
	for _, msg := range conv.Messages {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			return ErrUnknownRole
		}
	}
	if last, _ := GetLastMessage(conv); !last.IsUser() {
		return ErrLastNotUser
	}
	return nil
}
