package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncDeliversValue(t *testing.T) {
	ch := Async(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	res := <-ch
	require.NoError(t, res.Err)
	assert.Equal(t, 42, res.Value)
}

func TestAsyncDeliversError(t *testing.T) {
	boom := errors.New("boom")
	ch := Async(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})

	res := <-ch
	assert.ErrorIs(t, res.Err, boom)
}

// A receiver that walks away must not leak the worker goroutine; the
// buffered channel absorbs the result.
func TestAsyncAbandonedReceiverDoesNotBlock(t *testing.T) {
	done := make(chan struct{})
	_ = Async(context.Background(), func(ctx context.Context) (int, error) {
		defer close(done)
		return 1, nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker blocked on send")
	}
}
