package store

import "context"

// Result pairs a value with the error produced alongside it, for delivery
// over a channel.
type Result[T any] struct {
	Value T
	Err   error
}

// Async runs fn off the calling goroutine and delivers its outcome on the
// returned channel. The channel is buffered, so fn's goroutine never leaks
// even when the receiver gives up; cancellation of long calls is the
// context's job, not the channel's.
//
// Interactive shells use this to keep slow decryptions and tool calls off
// the event thread.
func Async[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}
