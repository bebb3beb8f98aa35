// Package ratelimit implements the per-caller admission window: at most one
// request per rolling second and at most three per trailing 30 seconds.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Config struct {
	// Window is the trailing interval over which admissions are counted.
	Window time.Duration
	// Max is the admission cap within Window.
	Max int
	// MinGap is the burst guard: the youngest retained admission must be at
	// least this old before another request is admitted.
	MinGap time.Duration
	// CleanupEvery is the janitor interval for evicting idle callers.
	CleanupEvery time.Duration
}

func DefaultConfig() Config {
	return Config{
		Window:       30 * time.Second,
		Max:          3,
		MinGap:       time.Second,
		CleanupEvery: 2 * time.Minute,
	}
}

// Governor keeps, per caller key, the ordered admission timestamps inside
// the trailing window. State is process-local and rebuilt from nothing on
// restart.
type Governor struct {
	cfg     Config
	mu      sync.Mutex
	history map[string][]time.Time
}

func NewGovernor(cfg Config) *Governor {
	if cfg.Window <= 0 {
		cfg.Window = 30 * time.Second
	}
	if cfg.Max <= 0 {
		cfg.Max = 3
	}
	return &Governor{cfg: cfg, history: make(map[string][]time.Time)}
}

// Admit decides whether a request from key arriving at now may proceed, and
// records it if so. Entries older than the window are pruned first; the
// request is rejected when the pruned history is already at the cap or when
// the most recent admission is younger than the burst gap.
func (g *Governor) Admit(key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	hist := g.prune(key, now)
	if len(hist) >= g.cfg.Max {
		g.history[key] = hist
		return false
	}
	if len(hist) > 0 && now.Sub(hist[len(hist)-1]) < g.cfg.MinGap {
		g.history[key] = hist
		return false
	}
	g.history[key] = append(hist, now)
	return true
}

// prune drops timestamps that have aged out of the window. Caller holds the
// lock.
func (g *Governor) prune(key string, now time.Time) []time.Time {
	hist := g.history[key]
	cutoff := now.Add(-g.cfg.Window)
	i := 0
	for i < len(hist) && !hist[i].After(cutoff) {
		i++
	}
	return hist[i:]
}

// Sweep evicts callers whose entire history has aged out, so the map does
// not grow with every distinct address ever seen.
func (g *Governor) Sweep(now time.Time) {
	cutoff := now.Add(-g.cfg.Window)
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, hist := range g.history {
		if len(hist) == 0 || !hist[len(hist)-1].After(cutoff) {
			delete(g.history, key)
		}
	}
}

// Keys reports the number of tracked callers, mainly for tests.
func (g *Governor) Keys() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history)
}

// StartJanitor sweeps idle callers periodically until ctx is done.
func (g *Governor) StartJanitor(ctx context.Context) {
	if g.cfg.CleanupEvery <= 0 {
		return
	}
	t := time.NewTicker(g.cfg.CleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				g.Sweep(time.Now())
			}
		}
	}()
}
