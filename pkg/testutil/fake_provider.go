package testutil

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/stream"
)

// FakeProvider implements the streaming provider surface for testing. It
// slices a canned response into fixed-size chunks and can be configured to
// fail before, during, or instead of the stream.
type FakeProvider struct {
	name       string
	model      string
	response   string
	chunkDelay time.Duration // Delay between chunks
	chunkSize  int           // Bytes per chunk
	failAfter  int           // Emit the terminal error after N content chunks
	failErr    error         // Terminal error value; nil = clean stream
	openErr    error         // Error returned from Stream itself
}

// NewFakeProvider creates a fake provider that streams the given response
func NewFakeProvider(name, response string) *FakeProvider {
	return &FakeProvider{
		name:      name,
		model:     "fake-model",
		response:  response,
		chunkSize: 5, // 5 bytes per chunk by default
	}
}

func (f *FakeProvider) Name() string {
	return f.name
}

func (f *FakeProvider) Model() string {
	return f.model
}

// Stream implements the stream.Source interface
func (f *FakeProvider) Stream(ctx context.Context, conv chat.Conversation) (<-chan stream.Chunk, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if err := chat.Validate(conv); err != nil {
		return nil, err
	}

	chunks := make(chan stream.Chunk, 100)

	go func() {
		defer close(chunks)

		sent := 0
		for i := 0; i < len(f.response); i += f.chunkSize {
			// Check if we should fail
			if f.failErr != nil && sent >= f.failAfter {
				select {
				case chunks <- stream.Chunk{Err: f.failErr, Done: true}:
				case <-ctx.Done():
				}
				return
			}

			// Calculate chunk bounds
			end := i + f.chunkSize
			if end > len(f.response) {
				end = len(f.response)
			}

			// Simulate processing delay
			if f.chunkDelay > 0 {
				select {
				case <-time.After(f.chunkDelay):
				case <-ctx.Done():
					return
				}
			}

			select {
			case chunks <- stream.Chunk{Data: []byte(f.response[i:end])}:
				sent++
			case <-ctx.Done():
				return
			}
		}

		// A failure configured past the end of the response still fires
		if f.failErr != nil {
			select {
			case chunks <- stream.Chunk{Err: f.failErr, Done: true}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case chunks <- stream.Chunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return chunks, nil
}

// SetChunkDelay sets the delay between chunks
func (f *FakeProvider) SetChunkDelay(delay time.Duration) {
	f.chunkDelay = delay
}

// SetChunkSize sets the number of bytes per chunk
func (f *FakeProvider) SetChunkSize(size int) {
	f.chunkSize = size
}

// SetFailAfter configures the stream to fail after N content chunks.
// Zero fails before the first chunk.
func (f *FakeProvider) SetFailAfter(chunks int, errorMessage string) {
	f.failAfter = chunks
	f.failErr = errors.New(errorMessage)
}

// SetFailError overrides the terminal error value, for callers that need a
// typed error such as a net.Error
func (f *FakeProvider) SetFailError(err error) {
	f.failErr = err
}

// SetOpenError makes Stream fail before producing any chunks
func (f *FakeProvider) SetOpenError(err error) {
	f.openErr = err
}
