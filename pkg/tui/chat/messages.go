package chat

import "github.com/killallgit/parley/pkg/chat"

// StreamChunk is what a request goroutine feeds back into the program.
// Snapshots of the in-flight reply arrive with IsEnd false; the resolved
// message arrives once with IsEnd true. StreamID is the transcript ID of
// the placeholder the chunk belongs to.
type StreamChunk struct {
	StreamID string
	Message  chat.Message
	IsEnd    bool
}
