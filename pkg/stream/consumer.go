package stream

import (
	"strings"
	"unicode/utf8"

	"github.com/killallgit/parley/pkg/chat"
)

// State identifies where a consumer is in its stream lifecycle.
type State int

const (
	// StateAwaitingFirstChunk is the initial state, buffer empty.
	StateAwaitingFirstChunk State = iota
	// StateAccumulating treats all decoded bytes so far as literal content.
	StateAccumulating
	// StateErrorDetected is entered the moment the trimmed buffer parses as
	// a complete error envelope. The transition is one-way; no further
	// chunks are read.
	StateErrorDetected
	// StateFinishedNormal is end-of-stream reached while accumulating.
	StateFinishedNormal
	// StateFinishedError is reached via StateErrorDetected or a transport
	// fault.
	StateFinishedError
	// StateFinishedHTTPError is reached before any chunk when the response
	// status already indicated failure.
	StateFinishedHTTPError
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstChunk:
		return "awaiting-first-chunk"
	case StateAccumulating:
		return "accumulating"
	case StateErrorDetected:
		return "error-detected"
	case StateFinishedNormal:
		return "finished-normal"
	case StateFinishedError:
		return "finished-error"
	case StateFinishedHTTPError:
		return "finished-http-error"
	default:
		return "unknown"
	}
}

// Consumer turns a byte-chunk stream into incrementally updated Message
// state, discriminating real content from an in-band error envelope at any
// point in the stream, including an envelope fragmented across chunks.
//
// Each update replaces the placeholder Message wholesale, so observers never
// see a torn state. A Consumer serves exactly one stream and is not safe for
// concurrent use: writes are strictly sequential with the reads that trigger
// them.
type Consumer struct {
	state    State
	provider string
	msg      chat.Message
	buf      strings.Builder
	pend     []byte
	cause    error
	onUpdate func(chat.Message)
}

// NewConsumer builds a consumer around the placeholder message. provider
// labels detected in-band errors ("Error from OpenAI: ..."). onUpdate, when
// non-nil, observes every atomic snapshot of the placeholder.
func NewConsumer(placeholder chat.Message, provider string, onUpdate func(chat.Message)) *Consumer {
	return &Consumer{
		state:    StateAwaitingFirstChunk,
		provider: provider,
		msg:      placeholder,
		onUpdate: onUpdate,
	}
}

// Feed consumes one chunk and reports whether the consumer wants more.
// Chunks arriving after a terminal state are ignored.
func (c *Consumer) Feed(data []byte) bool {
	if c.Done() {
		return false
	}
	if len(data) == 0 {
		return true
	}

	text := c.decode(data)
	c.buf.WriteString(text)

	if detail, found := DetectError(c.buf.String()); found {
		c.state = StateErrorDetected
		c.msg = c.msg.WithError(FormatProviderError(c.provider, detail))
		c.emit()
		return false
	}

	c.state = StateAccumulating
	if text != "" {
		c.msg = c.msg.WithContent(c.buf.String())
		c.emit()
	}
	return true
}

// Finish signals end-of-stream. Bytes still held by the decoder are flushed
// once and appended; a buffer that never became decidable stays literal
// content. Returns the final message.
func (c *Consumer) Finish() chat.Message {
	if c.state == StateErrorDetected {
		c.state = StateFinishedError
		return c.msg
	}
	if c.Done() {
		return c.msg
	}

	c.flush()

	if detail, found := DetectError(c.buf.String()); found {
		c.state = StateFinishedError
		c.msg = c.msg.WithError(FormatProviderError(c.provider, detail))
		c.emit()
		return c.msg
	}

	c.state = StateFinishedNormal
	c.msg = c.msg.WithContent(c.buf.String())
	c.emit()
	return c.msg
}

// Fail records a transport fault. Partial content is discarded: the message
// is overwritten with the generic network-error text. Returns the final
// message.
func (c *Consumer) Fail(err error) chat.Message {
	if c.state == StateErrorDetected {
		c.state = StateFinishedError
		return c.msg
	}
	if c.Done() {
		return c.msg
	}

	c.cause = err
	c.state = StateFinishedError
	c.msg = c.msg.WithError(NetworkErrorText)
	c.emit()
	return c.msg
}

// FailHTTP resolves a response whose status already indicated failure. Only
// valid before the first chunk; once bytes flow, failures travel in-band.
// Returns the final message.
func (c *Consumer) FailHTTP(status string, body []byte) chat.Message {
	if c.state != StateAwaitingFirstChunk {
		return c.msg
	}

	c.state = StateFinishedHTTPError
	c.msg = c.msg.WithError(ResolveHTTPError(status, body))
	c.emit()
	return c.msg
}

// State returns the current lifecycle state.
func (c *Consumer) State() State {
	return c.state
}

// Done reports whether the stream is finished from the consumer's point of
// view. StateErrorDetected counts: no further chunks are read after it.
func (c *Consumer) Done() bool {
	switch c.state {
	case StateErrorDetected, StateFinishedNormal, StateFinishedError, StateFinishedHTTPError:
		return true
	}
	return false
}

// Message returns the current snapshot of the placeholder.
func (c *Consumer) Message() chat.Message {
	return c.msg
}

// Content returns the decoded text accumulated so far.
func (c *Consumer) Content() string {
	return c.buf.String()
}

// Err returns the transport fault recorded by Fail, if any.
func (c *Consumer) Err() error {
	return c.cause
}

func (c *Consumer) emit() {
	if c.onUpdate != nil {
		c.onUpdate(c.msg)
	}
}

// decode appends data to any held-back bytes and returns the longest prefix
// that does not end inside a multi-byte sequence. The incomplete tail, at
// most three bytes, is held until the next chunk or the final flush.
func (c *Consumer) decode(data []byte) string {
	b := data
	if len(c.pend) > 0 {
		b = make([]byte, 0, len(c.pend)+len(data))
		b = append(b, c.pend...)
		b = append(b, data...)
	}

	cut := len(b)
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				cut = i
			}
			break
		}
	}

	c.pend = append([]byte(nil), b[cut:]...)
	return string(b[:cut])
}

func (c *Consumer) flush() {
	if len(c.pend) == 0 {
		return
	}
	c.buf.WriteString(string(c.pend))
	c.pend = nil
}
