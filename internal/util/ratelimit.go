package util

import (
	"context"
	"sync"
	"time"
)

// pollInterval is how often Wait rechecks the bucket while blocked.
const pollInterval = 10 * time.Millisecond

// RateLimiter paces calls against a per-minute request quota, such as the
// Alpaca market-data API's documented ceiling. It is a single-token bucket
// refilled continuously at quota rate: bursts are not accumulated, so a
// caller can never exceed the quota even after a long idle stretch.
type RateLimiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a limiter allowing perMinute calls per minute.
// The first Wait never blocks.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		rate:   float64(perMinute) / 60.0,
		tokens: 1,
		last:   time.Now(),
	}
}

// Wait blocks until the next call is allowed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		rl.tokens += now.Sub(rl.last).Seconds() * rl.rate
		if rl.tokens > 1 {
			rl.tokens = 1
		}
		rl.last = now

		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
