package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishUsageConsumed(ctx context.Context, event UsageEvent) error
	PublishUsageDenied(ctx context.Context, event UsageEvent) error
	PublishResultDegraded(ctx context.Context, event DegradedEvent) error
}

// JetStreamPublisher publishes events to NATS JetStream.
type JetStreamPublisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a JetStream-backed Publisher.
func NewPublisher(js jetstream.JetStream) *JetStreamPublisher {
	return &JetStreamPublisher{js: js}
}

func (p *JetStreamPublisher) PublishUsageConsumed(ctx context.Context, event UsageEvent) error {
	return p.publish(ctx, SubjectUsageConsumed, event)
}

func (p *JetStreamPublisher) PublishUsageDenied(ctx context.Context, event UsageEvent) error {
	return p.publish(ctx, SubjectUsageDenied, event)
}

func (p *JetStreamPublisher) PublishResultDegraded(ctx context.Context, event DegradedEvent) error {
	return p.publish(ctx, SubjectResultDegraded, event)
}

func (p *JetStreamPublisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// Nop discards every event. Used when NATS is not configured.
type Nop struct{}

func (Nop) PublishUsageConsumed(context.Context, UsageEvent) error     { return nil }
func (Nop) PublishUsageDenied(context.Context, UsageEvent) error       { return nil }
func (Nop) PublishResultDegraded(context.Context, DegradedEvent) error { return nil }
