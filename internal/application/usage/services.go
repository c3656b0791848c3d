package usage

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/usage"
)

// QuotaStatus is the answer to a quota check.
type QuotaStatus struct {
	Available bool `json:"available"`
	Current   int  `json:"current"`
	Limit     int  `json:"limit"`
}

// Governor enforces per-provider daily call ceilings. It keeps two separate
// policies: the quota-enforcing counters (CheckQuota/TrackUsage, hydrated
// from and persisted to the repository) and the record-only local counters
// (RecordLocal, purely informational, never persisted). The two must not be
// mixed.
//
// Governor is constructed once at the composition root and passed by
// reference; it must not be a package-level singleton.
type Governor struct {
	mu       sync.Mutex
	counters map[string]*domain.Counter
	local    map[string]int

	limits       map[string]int
	defaultLimit int

	repo  domain.Repository // optional; nil = in-memory only
	clock application.Clock
}

// NewGovernor builds a governor. limits maps provider name to its daily
// ceiling; providers absent from the map get defaultLimit.
func NewGovernor(limits map[string]int, defaultLimit int, repo domain.Repository, clock application.Clock) *Governor {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Governor{
		counters:     make(map[string]*domain.Counter),
		local:        make(map[string]int),
		limits:       limits,
		defaultLimit: defaultLimit,
		repo:         repo,
		clock:        clock,
	}
}

// CheckQuota reports the current counter state without mutating it.
func (g *Governor) CheckQuota(ctx context.Context, provider string) QuotaStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.counterLocked(ctx, provider)
	return QuotaStatus{
		Available: c.Used < c.Limit,
		Current:   c.Used,
		Limit:     c.Limit,
	}
}

// TrackUsage atomically adds units to today's counter. Returns false and
// leaves the counter unchanged when the increment would exceed the daily
// limit. Persistence runs asynchronously and best-effort: a dead backing
// store must never block traffic.
func (g *Governor) TrackUsage(ctx context.Context, provider string, units int) bool {
	if units <= 0 {
		return true
	}

	g.mu.Lock()
	c := g.counterLocked(ctx, provider)
	if c.Used+units > c.Limit {
		g.mu.Unlock()
		return false
	}
	c.Used += units
	snapshot := *c
	g.mu.Unlock()

	if g.repo != nil {
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := g.repo.Upsert(pctx, &snapshot); err != nil {
				log.Printf("usage persist failed provider=%s day=%s used=%d: %v",
					snapshot.Provider, snapshot.Day, snapshot.Used, err)
			}
		}()
	}
	return true
}

// RecordLocal is the record-only mode: a plain local increment with no limit,
// no persistence, and no blocking. Returns the new count.
func (g *Governor) RecordLocal(provider string, units int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.local[provider] += units
	return g.local[provider]
}

// LocalCount returns the record-only count for a provider.
func (g *Governor) LocalCount(provider string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.local[provider]
}

// counterLocked returns today's counter, hydrating it lazily from the
// repository on first access per (provider, day). Caller holds g.mu.
func (g *Governor) counterLocked(ctx context.Context, provider string) *domain.Counter {
	day := g.clock.Now().UTC().Format("2006-01-02")
	key := provider + "|" + day

	if c, ok := g.counters[key]; ok {
		return c
	}

	limit := g.defaultLimit
	if l, ok := g.limits[provider]; ok {
		limit = l
	}

	c := &domain.Counter{Provider: provider, Day: day, Used: 0, Limit: limit}
	if g.repo != nil {
		if stored, err := g.repo.Get(ctx, provider, day); err != nil {
			// backing store down → serve from memory, log and move on
			log.Printf("usage hydrate failed provider=%s day=%s: %v", provider, day, err)
		} else if stored != nil {
			c.Used = stored.Used
		}
	}
	g.counters[key] = c
	return c
}
