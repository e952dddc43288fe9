package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacing strategies accepted by ForPageLoads
const (
	StrategySliding = "sliding"
	StrategyBucket  = "bucket"
)

// Limiter paces page loads
type Limiter interface {
	// Allow takes a slot if one is free
	Allow() bool
	// Wait blocks until a slot is free or ctx is done
	Wait(ctx context.Context) error
	// Reset clears the limiter state
	Reset()
}

// ForPageLoads returns a limiter allowing perMinute page loads per minute,
// or nil when perMinute is not positive. Strategy "bucket" refills the whole
// allowance once a minute and permits bursts; anything else uses a sliding
// window.
func ForPageLoads(perMinute int, strategy string) Limiter {
	if perMinute <= 0 {
		return nil
	}
	if strategy == StrategyBucket {
		return NewTokenBucket(perMinute, time.Minute)
	}
	return NewSlidingWindow(perMinute, time.Minute)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill <= 0 {
			timeUntilRefill = 100 * time.Millisecond
		}
		if err := sleep(ctx, timeUntilRefill); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the token bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// SlidingWindow allows at most maxRequests within any windowSize interval
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates a new sliding window rate limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// Allow checks if a request can proceed
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}
	return false
}

// Wait blocks until a request is allowed
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for !sw.Allow() {
		wait := 100 * time.Millisecond
		sw.mu.Lock()
		if len(sw.requests) > 0 {
			if d := sw.windowSize - time.Since(sw.requests[0]); d > 0 {
				wait = d
			}
		}
		sw.mu.Unlock()

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all recorded requests
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

// cleanOldRequests removes requests outside the sliding window
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && sw.requests[i].Before(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:len(sw.requests)-i]
	}
}
