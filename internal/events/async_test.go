package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (r *recordingPublisher) record(subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return r.err
}

func (r *recordingPublisher) PublishUsageConsumed(context.Context, UsageEvent) error {
	return r.record(SubjectUsageConsumed)
}

func (r *recordingPublisher) PublishUsageDenied(context.Context, UsageEvent) error {
	return r.record(SubjectUsageDenied)
}

func (r *recordingPublisher) PublishResultDegraded(context.Context, DegradedEvent) error {
	return r.record(SubjectResultDegraded)
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subjects)
}

func TestAsync_DeliversAfterRequestContextEnds(t *testing.T) {
	rec := &recordingPublisher{}
	a := NewAsync(rec, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, a.PublishUsageConsumed(ctx, UsageEvent{}))
	assert.NoError(t, a.PublishResultDegraded(ctx, DegradedEvent{}))

	assert.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestAsync_SwallowsErrors(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("broker down")}
	a := NewAsync(rec, 0)

	assert.NoError(t, a.PublishUsageDenied(context.Background(), UsageEvent{}))
	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)
}

type slowPublisher struct {
	recordingPublisher
	delay time.Duration
}

func (s *slowPublisher) PublishUsageConsumed(ctx context.Context, e UsageEvent) error {
	time.Sleep(s.delay)
	return s.recordingPublisher.PublishUsageConsumed(ctx, e)
}

func TestAsync_CloseWaitsForInflight(t *testing.T) {
	slow := &slowPublisher{delay: 50 * time.Millisecond}
	a := NewAsync(slow, time.Second)

	for i := 0; i < 3; i++ {
		assert.NoError(t, a.PublishUsageConsumed(context.Background(), UsageEvent{}))
	}

	assert.NoError(t, a.Close(context.Background()))
	assert.Equal(t, 3, slow.count(), "Close must return only after every publish finished")

	assert.ErrorIs(t, a.PublishUsageConsumed(context.Background(), UsageEvent{}), ErrClosed)
	assert.Equal(t, 3, slow.count())
}

func TestAsync_CloseRespectsDeadline(t *testing.T) {
	slow := &slowPublisher{delay: 200 * time.Millisecond}
	a := NewAsync(slow, time.Second)
	assert.NoError(t, a.PublishUsageConsumed(context.Background(), UsageEvent{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Close(ctx), context.DeadlineExceeded)
}
