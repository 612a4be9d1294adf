package acquisition

import (
	"context"
	"math/rand/v2"
	"time"

	"fbref-scraper/internal/components/chrono"
)

// RateLimiter spaces requests at least `base * jitter` apart, measured from the
// last delivered response. It is not safe for concurrent use.
type RateLimiter struct {
	clock chrono.API
	base  time.Duration
	last  time.Time
}

func NewRateLimiter(clock chrono.API, base time.Duration) *RateLimiter {
	return &RateLimiter{clock: clock, base: base}
}

// Jitter draws a factor from [0.5, 1.5) so requests do not form a periodic signature.
func Jitter(rng *rand.Rand) float64 {
	return 0.5 + rng.Float64()
}

// Delay returns how long a request must still wait under the given jitter factor.
func (l *RateLimiter) Delay(jitter float64) time.Duration {
	if l.last.IsZero() {
		return 0
	}
	adjusted := time.Duration(float64(l.base) * jitter)
	elapsed := l.clock.Now().Sub(l.last)
	if elapsed >= adjusted {
		return 0
	}
	return adjusted - elapsed
}

func (l *RateLimiter) Wait(ctx context.Context, jitter float64) error {
	d := l.Delay(jitter)
	if d <= 0 {
		return ctx.Err()
	}
	return l.clock.Sleep(ctx, d)
}

// Mark records a delivered response. Failed attempts are never marked so they
// do not push back the next attempt.
func (l *RateLimiter) Mark() {
	l.last = l.clock.Now()
}
