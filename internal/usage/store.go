package usage

import (
	"context"
	"time"
)

// DayLayout is the calendar-day format used in keys.
const DayLayout = "2006-01-02"

// Store persists per-client daily counters.
//
// IncrementIfBelow must be atomic: concurrent callers for the same key never
// push the stored count past limit.
type Store interface {
	// Count returns the stored count for key, or 0 when no record exists.
	Count(ctx context.Context, key Key) (int, error)
	// IncrementIfBelow adds one to key's count when it is below limit and returns
	// the resulting count. When the limit is already reached it returns the
	// current count and false without mutating anything.
	IncrementIfBelow(ctx context.Context, key Key, limit int) (int, bool, error)
	// Sweep deletes every record whose day differs from today and returns how many were removed.
	Sweep(ctx context.Context, today string) (int, error)
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

func parseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}
