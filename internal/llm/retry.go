package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential backoff
// and ±20% jitter. A schema violation is retried once; truncation and
// context errors are never retried.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	invalidSeen := false
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(r.delay(attempt-1, err))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) {
			return nil, err
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var truncated *ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return false
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

// delay is the wait before retry number n+1. A rate limit that carries
// RetryAfter wins over the computed backoff.
func (r *RetryProvider) delay(n int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(n))
	if limit := float64(r.config.MaxWait); limit > 0 && d > limit {
		d = limit
	}
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}
