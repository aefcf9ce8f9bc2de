package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between outbound Finnhub calls.
// The free tier allows 60 calls/minute; 300ms keeps a comfortable margin.
const DefaultInterval = 300 * time.Millisecond

// Limiter enforces a minimum interval between calls, process-wide.
// All fetches share one limiter so that the four calls made for a symbol
// and the calls made for subsequent symbols draw from the same budget.
// Safe for concurrent use.
type Limiter struct {
	rl *rate.Limiter
}

// NewInterval creates a limiter that releases one call per interval.
func NewInterval(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the interval since the previous release has elapsed or
// the context is done. It never returns an error of its own; only context
// cancellation can fail it.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
