package harvest

import (
	"context"
	"fmt"
	"time"

	"tweetids/pkg/config"
)

// Probe returns the number of stream items currently on the page
type Probe func(ctx context.Context) (int, error)

// WaitPolicy decides when a page is ready to be read after a navigation or
// a scroll
type WaitPolicy interface {
	Wait(ctx context.Context, probe Probe) error
}

// FixedDelay sleeps for a constant duration
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context, _ Probe) error {
	return sleep(ctx, time.Duration(d))
}

// Settle polls the item count until it stops changing
type Settle struct {
	PollInterval time.Duration
	// StablePolls is how many consecutive polls must repeat the count
	StablePolls int
	// Timeout bounds the wait. Reaching it is not an error.
	Timeout time.Duration
}

func (s Settle) Wait(ctx context.Context, probe Probe) error {
	need := s.StablePolls
	if need <= 0 {
		need = 1
	}
	var deadline time.Time
	if s.Timeout > 0 {
		deadline = time.Now().Add(s.Timeout)
	}

	last, stable := -1, 0
	for {
		n, err := probe(ctx)
		if err != nil {
			return err
		}
		if n == last {
			stable++
			if stable >= need {
				return nil
			}
		} else {
			last, stable = n, 0
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil
		}
		if err := sleep(ctx, s.PollInterval); err != nil {
			return err
		}
	}
}

// NewWaitPolicy builds the policy described by cfg
func NewWaitPolicy(cfg config.WaitConfig) (WaitPolicy, error) {
	switch cfg.Mode {
	case "fixed", "":
		return FixedDelay(cfg.Delay), nil
	case "settle":
		return Settle{
			PollInterval: cfg.PollInterval,
			StablePolls:  cfg.StablePolls,
			Timeout:      cfg.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown wait mode: %s", cfg.Mode)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
