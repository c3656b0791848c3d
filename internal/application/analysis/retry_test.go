package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
)

// fakeProvider returns scripted responses/errors in order, then repeats the
// last entry.
type fakeProvider struct {
	name       string
	multiModal bool
	responses  []string
	errs       []error
	calls      int
}

func (p *fakeProvider) Name() string             { return p.name }
func (p *fakeProvider) SupportsMultiModal() bool { return p.multiModal }

func (p *fakeProvider) step() (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	if p.errs[i] != nil {
		return "", p.errs[i]
	}
	j := i
	if j >= len(p.responses) {
		j = len(p.responses) - 1
	}
	return p.responses[j], nil
}

func (p *fakeProvider) GenerateContent(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return p.step()
}

func (p *fakeProvider) GenerateMultiModalContent(ctx context.Context, systemPrompt, prompt, assetURL string) (string, error) {
	return p.step()
}

func fastPolicy() BackoffPolicy {
	return BackoffPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}
}

type allowGate struct{ calls []string }

func (g *allowGate) TrackUsage(ctx context.Context, provider string, units int) bool {
	g.calls = append(g.calls, provider)
	return true
}

type denyGate struct{ denied map[string]bool }

func (g *denyGate) TrackUsage(ctx context.Context, provider string, units int) bool {
	return !g.denied[provider]
}

func TestRunnerRetriesTransientThenSucceeds(t *testing.T) {
	p := &fakeProvider{
		name:      "gemini",
		responses: []string{"", "", "ok"},
		errs:      []error{&ai.TransientError{Cause: errors.New("503")}, &ai.TransientError{Cause: errors.New("503")}, nil},
	}
	r := &Runner{Providers: []ai.Provider{p}, Policy: fastPolicy()}

	res, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, 3, res.Attempts)
}

func TestRunnerFallsBackToNextProvider(t *testing.T) {
	bad := &fakeProvider{name: "gemini", errs: []error{&ai.TransientError{Cause: errors.New("down")}}}
	good := &fakeProvider{name: "claude", responses: []string{"answer"}, errs: []error{nil}}
	r := &Runner{Providers: []ai.Provider{bad, good}, Policy: fastPolicy()}

	res, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, "claude", res.Provider)
	assert.Equal(t, 3, bad.calls) // exhausted its attempts first
}

func TestRunnerQuotaErrorSwitchesImmediately(t *testing.T) {
	quota := &fakeProvider{name: "gemini", errs: []error{ai.ErrQuotaExceeded}}
	good := &fakeProvider{name: "claude", responses: []string{"answer"}, errs: []error{nil}}
	r := &Runner{Providers: []ai.Provider{quota, good}, Policy: fastPolicy()}

	res, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, "claude", res.Provider)
	assert.Equal(t, 1, quota.calls) // no retry against an exhausted provider
}

func TestRunnerGateBlocksProviderWithoutCalling(t *testing.T) {
	blocked := &fakeProvider{name: "gemini", responses: []string{"never"}, errs: []error{nil}}
	good := &fakeProvider{name: "claude", responses: []string{"answer"}, errs: []error{nil}}
	r := &Runner{
		Providers: []ai.Provider{blocked, good},
		Gate:      &denyGate{denied: map[string]bool{"gemini": true}},
		Policy:    fastPolicy(),
	}

	res, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, "claude", res.Provider)
	assert.Equal(t, 0, blocked.calls)
}

func TestRunnerGateChargesEveryAttempt(t *testing.T) {
	p := &fakeProvider{
		name:      "gemini",
		responses: []string{"", "ok"},
		errs:      []error{&ai.TransientError{Cause: errors.New("503")}, nil},
	}
	gate := &allowGate{}
	r := &Runner{Providers: []ai.Provider{p}, Gate: gate, Policy: fastPolicy()}

	_, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"gemini", "gemini"}, gate.calls)
}

func TestRunnerExhaustionReportsAttempts(t *testing.T) {
	p1 := &fakeProvider{name: "gemini", errs: []error{&ai.TransientError{Cause: errors.New("down")}}}
	p2 := &fakeProvider{name: "claude", errs: []error{&ai.TransientError{Cause: errors.New("down")}}}
	r := &Runner{Providers: []ai.Provider{p1, p2}, Policy: fastPolicy()}

	_, err := r.Do(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	var exhausted *ai.RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 6, exhausted.Attempts)
	assert.True(t, ai.IsTransient(exhausted.LastErr))
}

func TestRunnerDoOnceSingleAttemptPerProvider(t *testing.T) {
	p1 := &fakeProvider{name: "gemini", errs: []error{&ai.TransientError{Cause: errors.New("down")}}}
	p2 := &fakeProvider{name: "claude", responses: []string{"fixed"}, errs: []error{nil}}
	r := &Runner{Providers: []ai.Provider{p1, p2}, Policy: fastPolicy()}

	res, err := r.DoOnce(context.Background(), func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, "sys", "user")
	})

	require.NoError(t, err)
	assert.Equal(t, "fixed", res.Text)
	assert.Equal(t, 1, p1.calls)
}

func TestBackoffPolicyDelayCapped(t *testing.T) {
	p := BackoffPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2.0}
	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 300*time.Millisecond, p.Delay(3))
	assert.Equal(t, 300*time.Millisecond, p.Delay(4))
}

func TestMultiModalProvidersFilter(t *testing.T) {
	text := &fakeProvider{name: "text", errs: []error{nil}, responses: []string{""}}
	vision := &fakeProvider{name: "vision", multiModal: true, errs: []error{nil}, responses: []string{""}}
	r := &Runner{Providers: []ai.Provider{text, vision}}

	mm := r.MultiModalProviders()

	require.Len(t, mm, 1)
	assert.Equal(t, "vision", mm[0].Name())
}
