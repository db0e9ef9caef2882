package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixora-ai/fixora/internal/events"
	"github.com/fixora-ai/fixora/internal/metrics"
)

const maxLoggedReply = 500

// FallbackReporter records replies that could not be shaped into a result and
// were replaced by the fixed fallback.
type FallbackReporter struct {
	publisher events.Publisher
}

// NewFallbackReporter creates a reporter. A nil publisher disables events.
func NewFallbackReporter(publisher events.Publisher) *FallbackReporter {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &FallbackReporter{publisher: publisher}
}

// Report logs, counts and publishes one degraded result of the given kind.
func (f *FallbackReporter) Report(ctx context.Context, kind, provider, requestID string, cause error, reply string) {
	if len(reply) > maxLoggedReply {
		reply = reply[:maxLoggedReply] + "..."
	}
	slog.Warn("llm reply could not be parsed, serving fallback",
		"kind", kind,
		"provider", provider,
		"request_id", requestID,
		"error", cause,
	)
	slog.Debug("unparsed llm reply", "kind", kind, "request_id", requestID, "reply", reply)

	metrics.LLMFallbacksTotal.WithLabelValues(kind).Inc()
	err := f.publisher.PublishResultDegraded(ctx, events.DegradedEvent{
		Kind:      kind,
		Reason:    cause.Error(),
		Provider:  provider,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("publishing degraded result event", "kind", kind, "request_id", requestID, "error", err)
	}
}
