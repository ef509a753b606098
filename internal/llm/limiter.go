package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the process-wide gate in front of the model endpoint. It is a
// token bucket of burst 1 refilling every minDelay, so successive call starts
// are spaced at least minDelay apart no matter how many goroutines share it.
type Limiter struct {
	limiter *rate.Limiter
	clock   Clock
}

// NewLimiter creates a gate spacing call starts by minDelay. A zero
// minDelay disables spacing.
func NewLimiter(minDelay time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock{}
	}
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		clock:   clock,
	}
}

// Wait reserves the next slot and sleeps until it opens. If ctx ends first
// the reservation is returned to the bucket and ctx.Err() is returned.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := l.clock.Now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return NewInvalidRequestError("limiter burst exceeded")
	}
	delay := r.DelayFrom(now)
	if err := l.clock.Sleep(ctx, delay); err != nil {
		r.CancelAt(l.clock.Now())
		return err
	}
	return nil
}
