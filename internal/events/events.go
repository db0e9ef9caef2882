package events

import "time"

// StreamEvents is the JetStream stream holding every Fixora event.
const StreamEvents = "FIXORA_EVENTS"

// Subject constants.
const (
	SubjectPrefix         = "fixora.events"
	SubjectUsageConsumed  = "fixora.events.usage.consumed"
	SubjectUsageDenied    = "fixora.events.usage.denied"
	SubjectResultDegraded = "fixora.events.result.degraded"
)

// UsageEvent is published whenever the quota gate admits or rejects a billable request.
type UsageEvent struct {
	ClientID  string    `json:"client_id"`
	Day       string    `json:"day"`
	Path      string    `json:"path"`
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DegradedEvent is published when an LLM reply could not be shaped and the
// fallback result was served instead.
type DegradedEvent struct {
	Kind      string    `json:"kind"` // "analysis" or "email"
	Reason    string    `json:"reason"`
	Provider  string    `json:"provider"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
