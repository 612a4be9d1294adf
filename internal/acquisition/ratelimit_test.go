package acquisition

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"fbref-scraper/internal/components/chrono"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRateLimiterFirstRequestIsFree(t *testing.T) {
	clock := chrono.NewFake(epoch)
	limiter := NewRateLimiter(clock, 5*time.Second)

	require.Zero(t, limiter.Delay(1.5))
	require.NoError(t, limiter.Wait(context.Background(), 1.5))
	require.Empty(t, clock.Sleeps())
}

func TestRateLimiterDelay(t *testing.T) {
	testCases := []struct {
		name     string
		elapsed  time.Duration
		jitter   float64
		expected time.Duration
	}{
		{name: "no time elapsed", elapsed: 0, jitter: 1, expected: 5 * time.Second},
		{name: "partially elapsed", elapsed: 2 * time.Second, jitter: 1, expected: 3 * time.Second},
		{name: "low jitter", elapsed: time.Second, jitter: 0.5, expected: 1500 * time.Millisecond},
		{name: "high jitter", elapsed: time.Second, jitter: 1.5, expected: 6500 * time.Millisecond},
		{name: "fully elapsed", elapsed: 8 * time.Second, jitter: 1.5, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := chrono.NewFake(epoch)
			limiter := NewRateLimiter(clock, 5*time.Second)
			limiter.Mark()
			clock.Advance(tc.elapsed)
			require.Equal(t, tc.expected, limiter.Delay(tc.jitter))
		})
	}
}

func TestRateLimiterWaitSleepsOnClock(t *testing.T) {
	clock := chrono.NewFake(epoch)
	limiter := NewRateLimiter(clock, 4*time.Second)
	limiter.Mark()
	clock.Advance(time.Second)

	require.NoError(t, limiter.Wait(context.Background(), 1))
	require.Equal(t, []time.Duration{3 * time.Second}, clock.Sleeps())
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	limiter := NewRateLimiter(chrono.NewStandardImpl(), time.Hour)
	limiter.Mark()
	require.ErrorIs(t, limiter.Wait(ctx, 1), context.Canceled)
}

func TestJitterRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 1000 {
		j := Jitter(rng)
		require.GreaterOrEqual(t, j, 0.5)
		require.Less(t, j, 1.5)
	}
}
