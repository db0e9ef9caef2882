package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fixora-ai/fixora/internal/api"
	"github.com/fixora-ai/fixora/internal/events"
	"github.com/fixora-ai/fixora/internal/metrics"
	"github.com/fixora-ai/fixora/internal/usage"
)

// Gate decisions recorded in fixora_quota_decisions_total.
const (
	decisionAllowed  = "allowed"
	decisionDenied   = "denied"
	decisionFailOpen = "fail_open"
)

// QuotaExceededResponse is the 429 body returned once a client has used up its day.
type QuotaExceededResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Usage   usage.Status        `json:"usage"`
	Upgrade *usage.UpgradeOffer `json:"upgrade"`
}

// Gate enforces the per-client daily quota in front of billable handlers.
type Gate struct {
	usage      *usage.Service
	publisher  events.Publisher
	trustProxy bool
}

// NewGate creates a Gate. A nil publisher disables events.
func NewGate(svc *usage.Service, publisher events.Publisher, trustProxy bool) *Gate {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Gate{usage: svc, publisher: publisher, trustProxy: trustProxy}
}

// Middleware checks the quota, consumes one unit and only then calls next.
// Store errors fail open: the request goes through unmetered.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID := api.ClientIP(r, g.trustProxy)

		status, err := g.usage.Status(ctx, clientID)
		if err != nil {
			g.failOpen(w, r, next, clientID, err)
			return
		}
		if !status.CanUse {
			g.deny(w, r, clientID, status)
			return
		}

		result, err := g.usage.Increment(ctx, clientID)
		if err != nil {
			g.failOpen(w, r, next, clientID, err)
			return
		}
		if !result.Success {
			g.deny(w, r, clientID, g.usage.ExhaustedStatus(ctx, clientID))
			return
		}

		metrics.QuotaDecisionsTotal.WithLabelValues(decisionAllowed).Inc()
		if err := g.publisher.PublishUsageConsumed(ctx, g.event(r, clientID, g.usage.Limit()-result.Remaining)); err != nil {
			g.publishFailed(r, events.SubjectUsageConsumed, err)
		}

		w.Header().Set(api.HeaderUsageRemaining, strconv.Itoa(result.Remaining))
		w.Header().Set(api.HeaderUsageLimitReached, strconv.FormatBool(result.LimitReached))
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, clientID string, status usage.Status) {
	metrics.QuotaDecisionsTotal.WithLabelValues(decisionDenied).Inc()
	if err := g.publisher.PublishUsageDenied(r.Context(), g.event(r, clientID, status.Used)); err != nil {
		g.publishFailed(r, events.SubjectUsageDenied, err)
	}

	slog.Info("usage limit exceeded",
		"request_id", GetRequestID(r.Context()),
		"client_id", clientID,
		"used", status.Used,
		"limit", status.Limit,
	)
	api.Write(w, http.StatusTooManyRequests, QuotaExceededResponse{
		Error:   "Usage limit exceeded",
		Message: fmt.Sprintf("You have reached your daily limit of %d free uses. Please upgrade to continue.", status.Limit),
		Usage:   status,
		Upgrade: usage.DefaultUpgradeOffer(),
	})
}

func (g *Gate) failOpen(w http.ResponseWriter, r *http.Request, next http.Handler, clientID string, err error) {
	metrics.QuotaDecisionsTotal.WithLabelValues(decisionFailOpen).Inc()
	slog.Warn("usage gate: store error, failing open",
		"request_id", GetRequestID(r.Context()),
		"client_id", clientID,
		"error", err,
	)
	next.ServeHTTP(w, r)
}

func (g *Gate) publishFailed(r *http.Request, subject string, err error) {
	slog.Warn("usage gate: publishing event failed",
		"request_id", GetRequestID(r.Context()),
		"subject", subject,
		"error", err,
	)
}

func (g *Gate) event(r *http.Request, clientID string, used int) events.UsageEvent {
	return events.UsageEvent{
		ClientID:  clientID,
		Day:       g.usage.Today(),
		Path:      r.URL.Path,
		Used:      used,
		Limit:     g.usage.Limit(),
		RequestID: GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}
