package usage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service enforces a fixed number of billable operations per client per calendar day.
type Service struct {
	store Store
	limit int
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines calendar-day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a usage Service. Days roll over at UTC midnight unless
// WithLocation says otherwise.
func NewService(store Store, limit int, opts ...Option) *Service {
	s := &Service{
		store: store,
		limit: limit,
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the configured daily limit.
func (s *Service) Limit() int {
	return s.limit
}

// Today returns the current calendar day as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(DayLayout)
}

func (s *Service) key(clientID string) Key {
	return Key{ClientID: clientID, Day: s.Today()}
}

// CurrentUsage returns today's count for clientID.
func (s *Service) CurrentUsage(ctx context.Context, clientID string) (int, error) {
	n, err := s.store.Count(ctx, s.key(clientID))
	if err != nil {
		return 0, fmt.Errorf("reading usage for %s: %w", clientID, err)
	}
	return n, nil
}

// Remaining returns how many operations clientID may still perform today.
func (s *Service) Remaining(ctx context.Context, clientID string) (int, error) {
	used, err := s.CurrentUsage(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return max(0, s.limit-used), nil
}

// CanUse reports whether clientID is below the daily limit.
func (s *Service) CanUse(ctx context.Context, clientID string) (bool, error) {
	used, err := s.CurrentUsage(ctx, clientID)
	if err != nil {
		return false, err
	}
	return used < s.limit, nil
}

// Increment consumes one unit of clientID's quota. When the limit is already
// reached nothing is stored and Success is false.
func (s *Service) Increment(ctx context.Context, clientID string) (IncrementResult, error) {
	count, ok, err := s.store.IncrementIfBelow(ctx, s.key(clientID), s.limit)
	if err != nil {
		return IncrementResult{}, fmt.Errorf("incrementing usage for %s: %w", clientID, err)
	}
	if !ok {
		return IncrementResult{Success: false, Remaining: 0, LimitReached: true}, nil
	}
	return IncrementResult{
		Success:      true,
		Remaining:    max(0, s.limit-count),
		LimitReached: count >= s.limit,
	}, nil
}

// Status returns a read-only usage snapshot for clientID.
func (s *Service) Status(ctx context.Context, clientID string) (Status, error) {
	used, err := s.CurrentUsage(ctx, clientID)
	if err != nil {
		return Status{}, err
	}
	return s.statusFor(used), nil
}

// ExhaustedStatus is the snapshot reported when an increment loses the race to the limit.
func (s *Service) ExhaustedStatus(ctx context.Context, clientID string) Status {
	used, err := s.CurrentUsage(ctx, clientID)
	if err != nil {
		used = s.limit
	}
	st := s.statusFor(used)
	st.Remaining = 0
	st.CanUse = false
	return st
}

func (s *Service) statusFor(used int) Status {
	return Status{
		Used:      used,
		Remaining: max(0, s.limit-used),
		Limit:     s.limit,
		CanUse:    used < s.limit,
	}
}

// Sweep removes records from days other than today.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	n, err := s.store.Sweep(ctx, s.Today())
	if err != nil {
		return n, fmt.Errorf("sweeping usage records: %w", err)
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				slog.Warn("usage sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("usage sweep removed stale records", "removed", n)
			}
		}
	}
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
