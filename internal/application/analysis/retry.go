package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	ai "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
)

// BackoffPolicy bounds retries against one provider.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultBackoffPolicy mirrors the per-stage behavior of the pipeline:
// three attempts, exponential backoff capped at 8s.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Multiplier:  2.0,
	}
}

// Delay computes the capped exponential backoff for an attempt (1-based).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// QuotaGate is consulted before every provider call. Implemented by the
// usage governor.
type QuotaGate interface {
	TrackUsage(ctx context.Context, provider string, units int) bool
}

// ProviderOp is one model call against a specific provider.
type ProviderOp func(ctx context.Context, p ai.Provider) (string, error)

// CallResult reports which provider answered and how many calls it took.
type CallResult struct {
	Text     string
	Provider string
	Attempts int
}

// Runner is the generic retry-with-backoff and provider-fallback wrapper
// around model calls. Every stage and repair call routes through it.
type Runner struct {
	Providers   []ai.Provider // ordered, primary first
	Gate        QuotaGate     // optional
	Policy      BackoffPolicy
	CallTimeout time.Duration // 0 = no per-call timeout
}

// Do runs op against the configured providers in order.
func (r *Runner) Do(ctx context.Context, op ProviderOp) (CallResult, error) {
	return r.DoWith(ctx, r.Providers, op)
}

// DoWith runs op against an explicit provider list. Terminal quota errors
// switch provider immediately; transient errors retry with backoff first.
func (r *Runner) DoWith(ctx context.Context, providers []ai.Provider, op ProviderOp) (CallResult, error) {
	total := 0
	var lastErr error

	for _, p := range providers {
		for attempt := 1; attempt <= r.Policy.MaxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return CallResult{Attempts: total}, err
			}
			if r.Gate != nil && !r.Gate.TrackUsage(ctx, p.Name(), 1) {
				lastErr = fmt.Errorf("%s: %w", p.Name(), ai.ErrQuotaExceeded)
				break // langsung pindah provider, jangan retry
			}

			total++
			text, err := r.call(ctx, p, op)
			if err == nil {
				return CallResult{Text: text, Provider: p.Name(), Attempts: total}, nil
			}
			lastErr = err

			if errors.Is(err, ai.ErrQuotaExceeded) {
				break // terminal for this provider today
			}
			if attempt == r.Policy.MaxAttempts {
				break
			}
			select {
			case <-ctx.Done():
				return CallResult{Attempts: total}, ctx.Err()
			case <-time.After(r.Policy.Delay(attempt)):
			}
		}
	}

	return CallResult{Attempts: total}, &ai.RetryExhaustedError{Attempts: total, LastErr: lastErr}
}

// DoOnce issues a single attempt on the first available provider. Dipakai untuk
// repair call yang tidak boleh retry.
func (r *Runner) DoOnce(ctx context.Context, op ProviderOp) (CallResult, error) {
	total := 0
	var lastErr error
	for _, p := range r.Providers {
		if r.Gate != nil && !r.Gate.TrackUsage(ctx, p.Name(), 1) {
			lastErr = fmt.Errorf("%s: %w", p.Name(), ai.ErrQuotaExceeded)
			continue
		}
		total++
		text, err := r.call(ctx, p, op)
		if err == nil {
			return CallResult{Text: text, Provider: p.Name(), Attempts: total}, nil
		}
		lastErr = err
	}
	return CallResult{Attempts: total}, &ai.RetryExhaustedError{Attempts: total, LastErr: lastErr}
}

func (r *Runner) call(ctx context.Context, p ai.Provider, op ProviderOp) (string, error) {
	if r.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CallTimeout)
		defer cancel()
	}
	return op(ctx, p)
}

// MultiModalProviders filters the runner's providers down to the ones that
// can take a raw video asset.
func (r *Runner) MultiModalProviders() []ai.Provider {
	out := make([]ai.Provider, 0, len(r.Providers))
	for _, p := range r.Providers {
		if p.SupportsMultiModal() {
			out = append(out, p)
		}
	}
	return out
}
