package stream

import (
	"context"

	"github.com/killallgit/parley/pkg/chat"
)

// chunkBuffer sizes the channel between the upstream read and the consumer.
const chunkBuffer = 100

// Chunk is one unit of bytes from a source. No semantic boundary is
// guaranteed; chunks are arbitrary substrings of the response.
//
// A stream is a sequence of data chunks closed by exactly one terminal chunk
// with Done set. Err on the terminal chunk is the upstream fault, if any:
// the receiver decides whether it can still report it out-of-band or must
// encode it into already-committed output. A channel that closes without a
// terminal chunk was cancelled.
type Chunk struct {
	Data []byte
	Err  error
	Done bool
}

// Source produces the byte-chunk stream for one request.
//
// A non-nil error return means the request failed before the upstream call
// was made. Once the channel is returned, every later failure arrives on the
// terminal chunk instead.
type Source interface {
	Stream(ctx context.Context, conv chat.Conversation) (<-chan Chunk, error)
}

// StartFunc begins an upstream call, delivering fragments through the
// handler until the call returns.
type StartFunc func(ctx context.Context, handler Handler) error

// Open runs start in its own goroutine and adapts it to the chunk-channel
// contract. Exactly one upstream call is made per Open. Cancellation tears
// the call down through ctx and closes the channel without a terminal chunk.
func Open(ctx context.Context, start StartFunc) <-chan Chunk {
	chunks := make(chan Chunk, chunkBuffer)

	go func() {
		defer close(chunks)

		err := start(ctx, func(chunk []byte) error {
			// The upstream may reuse its buffer between callbacks.
			data := make([]byte, len(chunk))
			copy(data, chunk)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case chunks <- Chunk{Data: data}:
				return nil
			}
		})
		if ctx.Err() != nil {
			return
		}

		select {
		case chunks <- Chunk{Err: err, Done: true}:
		case <-ctx.Done():
		}
	}()

	return chunks
}
