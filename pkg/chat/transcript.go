package chat

import "sync"

// Transcript is the mutable, append-only conversation held by a front end.
// At most one message is in flight at a time: the assistant placeholder
// appended before the network call resolves. All updates locate that
// placeholder by its ID, never by position, so list growth cannot corrupt
// the wrong entry.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{
		messages: make([]Message, 0),
	}
}

// Append adds a finalized message and returns it.
func (t *Transcript) Append(msg Message) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg)
	return msg
}

// AppendPlaceholder adds the empty assistant message for an outstanding
// request and returns it. The caller uses the returned ID for every
// subsequent update.
func (t *Transcript) AppendPlaceholder() Message {
	return t.Append(NewPlaceholderMessage())
}

// SetContent atomically replaces the content of the message with the given
// ID. It refuses to touch a message already marked as an error, keeping the
// error transition one-way.
func (t *Transcript) SetContent(id, content string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.messages {
		if t.messages[i].ID == id {
			if t.messages[i].IsError {
				return false
			}
			t.messages[i] = t.messages[i].WithContent(content)
			return true
		}
	}
	return false
}

// MarkError replaces the content of the message with the given ID and sets
// its error flag. The flag is never cleared afterwards.
func (t *Transcript) MarkError(id, content string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i] = t.messages[i].WithError(content)
			return true
		}
	}
	return false
}

// Get returns the message with the given ID.
func (t *Transcript) Get(id string) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, msg := range t.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return Message{}, false
}

// Messages returns a copy of the transcript in turn order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Message, len(t.messages))
	copy(result, t.messages)
	return result
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
