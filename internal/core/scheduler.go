package core

// scheduler.go closes workspaces nobody has touched for a while.
//
// Workspaces live only in memory, so an abandoned browser tab would hold
// its sheet forever. The eviction loop runs every CheckInterval and drops
// workspaces idle longer than IdleTTL. A workspace that is loading a file
// is never evicted.

import (
	"context"
	"log/slog"
	"time"
)

// EvictionConfig holds configuration for the eviction scheduler.
type EvictionConfig struct {
	IdleTTL       time.Duration // Close workspaces idle this long (default: 2h)
	CheckInterval time.Duration // How often to check (default: 5m)
}

func (c EvictionConfig) withDefaults() EvictionConfig {
	if c.IdleTTL <= 0 {
		c.IdleTTL = 2 * time.Hour
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 5 * time.Minute
	}
	return c
}

// StartEvictionScheduler periodically closes idle workspaces until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartEvictionScheduler(ctx context.Context, cfg EvictionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("eviction scheduler started",
		"idle_ttl", cfg.IdleTTL,
		"check_interval", cfg.CheckInterval,
	)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("eviction scheduler stopped")
			return
		case <-ticker.C:
			if n := s.EvictIdle(cfg.IdleTTL); n > 0 {
				slog.Info("evicted idle workspaces",
					"evicted", n,
					"open", s.WorkspaceCount(),
				)
			}
		}
	}
}

// EvictIdle closes every workspace whose last use is older than ttl and
// returns how many were closed.
func (s *Service) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ws := range s.workspaces {
		if ws.ingesting.Load() {
			continue
		}
		if ws.LastUsed().Before(cutoff) {
			delete(s.workspaces, id)
			evicted++
		}
	}
	return evicted
}
