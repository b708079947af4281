// Package ratelimiter throttles calls to external providers.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter blocks until another call may proceed or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows up to limit calls per fixed interval window.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // calls allowed per window
	interval  time.Duration // window length
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter creates a RateLimiter. A non-positive limit disables throttling.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait reserves a slot in the current window, sleeping until the next window
// when the current one is full.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return ctx.Err()
	}

	for {
		rl.mu.Lock()
		now := rl.now()
		if now.Sub(rl.lastReset) >= rl.interval {
			rl.count = 0
			rl.lastReset = now
		}
		if rl.count < rl.limit {
			rl.count++
			rl.mu.Unlock()
			return nil
		}
		sleep := rl.interval - now.Sub(rl.lastReset)
		rl.mu.Unlock()

		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
