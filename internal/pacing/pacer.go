package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"factsift/internal/ports"
)

// FixedDelay spaces successive upstream calls by a constant interval.
type FixedDelay struct {
	limiter *rate.Limiter
}

var _ ports.Pacer = (*FixedDelay)(nil)

// NewFixedDelay builds a pacer allowing at most one call per interval.
// A non-positive interval disables pacing entirely.
func NewFixedDelay(interval time.Duration) *FixedDelay {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &FixedDelay{limiter: rate.NewLimiter(limit, 1)}
}

// Pause blocks until the interval since the previous call has elapsed,
// or until the context is cancelled.
func (f *FixedDelay) Pause(ctx context.Context) error {
	return f.limiter.Wait(ctx)
}
