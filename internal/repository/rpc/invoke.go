package rpc

import (
	"context"
	"fmt"
	"time"
)

// outcome is the settled result of an invoked operation.
type outcome[T any] struct {
	val T
	err error
}

// Invoke runs the operation and waits for it at most the given duration.
// If the timer fires first, the call fails with a Timeout error carrying msg.
// The operation is not cancelled on timeout; it keeps running and its result
// is discarded once it settles.
func Invoke[T any](ctx context.Context, timeout time.Duration, msg string, op func() (T, error)) (T, error) {
	return invoke(ctx, timeout, msg, op, nil)
}

// invoke implements Invoke; the discard callback, if any, receives
// a successful result that arrived after the caller stopped waiting.
func invoke[T any](ctx context.Context, timeout time.Duration, msg string, op func() (T, error), discard func(T)) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		var out outcome[T]
		defer func() {
			if r := recover(); r != nil {
				out.err = fmt.Errorf("operation panicked; %v", r)
			}
			done <- out
		}()
		out.val, out.err = op()
	}()

	tm := time.NewTimer(timeout)
	defer tm.Stop()

	var zero T
	select {
	case out := <-done:
		return out.val, out.err
	case <-tm.C:
		abandon(done, discard)
		return zero, errTimeout(msg)
	case <-ctx.Done():
		abandon(done, discard)
		return zero, ctx.Err()
	}
}

// abandon hands a late result of an operation to the discard callback.
func abandon[T any](done <-chan outcome[T], discard func(T)) {
	if discard == nil {
		return
	}
	go func() {
		if out := <-done; out.err == nil {
			discard(out.val)
		}
	}()
}
