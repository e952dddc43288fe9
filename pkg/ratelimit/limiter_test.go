package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, time.Second)

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	time.Sleep(time.Second + 100*time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected tokens to be refilled after waiting")
	}

	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}

func TestTokenBucket_WaitCanceled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("First wait should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tb.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly after cancellation")
	}
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(3, time.Second)

	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if sw.Allow() {
		t.Error("Expected request to be denied when limit is reached")
	}

	time.Sleep(time.Second + 100*time.Millisecond)
	if !sw.Allow() {
		t.Error("Expected request to be allowed after window slides")
	}

	sw.Reset()
	if len(sw.requests) != 0 {
		t.Error("Expected requests to be cleared after reset")
	}
}

func TestSlidingWindow_Wait(t *testing.T) {
	sw := NewSlidingWindow(1, 200*time.Millisecond)
	ctx := context.Background()

	if err := sw.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := sw.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("Expected second wait to block for the window, took %v", elapsed)
	}
}

func TestForPageLoads(t *testing.T) {
	if ForPageLoads(0, StrategySliding) != nil {
		t.Error("Expected no limiter when disabled")
	}
	if ForPageLoads(-3, StrategyBucket) != nil {
		t.Error("Expected no limiter for negative rate")
	}
	if _, ok := ForPageLoads(30, StrategySliding).(*SlidingWindow); !ok {
		t.Error("Expected a sliding window limiter")
	}
	if _, ok := ForPageLoads(30, "").(*SlidingWindow); !ok {
		t.Error("Expected the sliding window by default")
	}
	if _, ok := ForPageLoads(30, StrategyBucket).(*TokenBucket); !ok {
		t.Error("Expected a token bucket limiter")
	}
}
