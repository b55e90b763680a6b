// Package delay provides simulated latency that stops with its context.
package delay

import (
	"context"
	"time"
)

// Wait blocks for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when cancelled early.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// After runs fn once d has elapsed unless ctx ends first. The returned stop
// function cancels a pending call and reports whether it did so.
func After(ctx context.Context, d time.Duration, fn func()) (stop func() bool) {
	t := time.AfterFunc(d, func() {
		if ctx.Err() == nil {
			fn()
		}
	})
	unregister := context.AfterFunc(ctx, func() { t.Stop() })
	return func() bool {
		unregister()
		return t.Stop()
	}
}
