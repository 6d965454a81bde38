package retry

import (
	"context"
	"time"

	"aura/pkg/errors"
)

// Policy describes how a caller retries a failing outbound call.
// It is applied explicitly at call sites; there is no function wrapping.
type Policy struct {
	MaxAttempts int           // Total attempts including the first (e.g. 3)
	BaseDelay   time.Duration // Delay before the second attempt (e.g. 2s)
	Multiplier  float64       // Backoff multiplier between attempts (e.g. 2.0)
	MaxDelay    time.Duration // Upper bound for a single delay (0 = unbounded)
}

// DefaultPolicy is suitable for outbound HTTP calls with a 30s ceiling per call.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2.0,
		MaxDelay:    30 * time.Second,
	}
}

// Delay returns the sleep duration after a given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn up to MaxAttempts times, sleeping between attempts.
// It returns the last error if all attempts fail, or the context error
// if the context is cancelled while waiting.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return errors.Wrapf(lastErr, "all %d attempts failed", p.MaxAttempts)
}
