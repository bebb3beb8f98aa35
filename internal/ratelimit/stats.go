package ratelimit

import (
	"context"
	"time"
)

// StatsEvent is one admission decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// Stats is a best-effort sink for admission decisions. Implementations must
// never fail a request; errors are logged and dropped by the caller.
type Stats interface {
	Record(ctx context.Context, ev StatsEvent) error
}
