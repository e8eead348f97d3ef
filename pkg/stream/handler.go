package stream

import "context"

// Handler receives response fragments as an upstream call produces them.
// Returning an error aborts the call.
type Handler func(chunk []byte) error

// ToStreamingFunc adapts a Handler to the callback signature langchaingo
// expects for llms.WithStreamingFunc. Once ctx is cancelled the callback
// stops forwarding and returns the cancellation cause instead.
func ToStreamingFunc(handler Handler) func(context.Context, []byte) error {
	return func(ctx context.Context, chunk []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return handler(chunk)
	}
}
