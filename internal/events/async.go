package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const defaultPublishTimeout = 2 * time.Second

// ErrClosed is returned for events published after Close.
var ErrClosed = errors.New("event publisher closed")

// Async hands every event to a background goroutine so request latency never
// depends on the broker. Failures are logged and dropped. Close waits for
// events still in flight.
type Async struct {
	next    Publisher
	timeout time.Duration

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewAsync wraps next. A zero timeout uses two seconds.
func NewAsync(next Publisher, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Async{next: next, timeout: timeout}
}

func (a *Async) PublishUsageConsumed(ctx context.Context, event UsageEvent) error {
	return a.dispatch(ctx, SubjectUsageConsumed, func(ctx context.Context) error {
		return a.next.PublishUsageConsumed(ctx, event)
	})
}

func (a *Async) PublishUsageDenied(ctx context.Context, event UsageEvent) error {
	return a.dispatch(ctx, SubjectUsageDenied, func(ctx context.Context) error {
		return a.next.PublishUsageDenied(ctx, event)
	})
}

func (a *Async) PublishResultDegraded(ctx context.Context, event DegradedEvent) error {
	return a.dispatch(ctx, SubjectResultDegraded, func(ctx context.Context) error {
		return a.next.PublishResultDegraded(ctx, event)
	})
}

func (a *Async) dispatch(parent context.Context, subject string, fn func(context.Context) error) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.inflight.Add(1)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), a.timeout)
	go func() {
		defer a.inflight.Done()
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Warn("event publish failed", "subject", subject, "error", err)
		}
	}()
	return nil
}

// Close stops accepting events and waits for in-flight publishes until ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
