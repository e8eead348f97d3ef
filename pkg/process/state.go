package process

// State represents what the active request is currently doing
type State string

const (
	// StateIdle indicates no request in flight
	StateIdle State = ""

	// StateSending indicates the conversation is being sent to the server
	StateSending State = "sending"

	// StateThinking indicates the request is awaiting its first token
	StateThinking State = "thinking"

	// StateReceiving indicates reply tokens are arriving
	StateReceiving State = "receiving"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// GetIcon returns the appropriate icon for a given state
func (s State) GetIcon() string {
	switch s {
	case StateSending:
		return "↑"
	case StateReceiving:
		return "↓"
	case StateThinking:
		return "🤔"
	default:
		return ""
	}
}

// GetDisplayName returns a human-readable name for the state
func (s State) GetDisplayName() string {
	switch s {
	case StateSending:
		return "Sending"
	case StateThinking:
		return "Thinking"
	case StateReceiving:
		return "Receiving"
	case StateIdle:
		return "Idle"
	default:
		return ""
	}
}
