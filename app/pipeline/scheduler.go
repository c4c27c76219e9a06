package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/labirinth/curator/app/config"
)

// Scheduler drives one full sweep over all feeds every fixed interval,
// strictly sequentially. The next sweep begins only after the previous one
// has fully drained; there is no overlap and no dynamic interval adjustment.
type Scheduler struct {
	pipeline *Pipeline
	feeds    []config.Feed
	interval time.Duration

	mu        sync.Mutex
	lastStats Stats
	lastSweep time.Time
	sweeps    int
}

func NewScheduler(pipeline *Pipeline, feeds []config.Feed, interval time.Duration) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		feeds:    feeds,
		interval: interval,
	}
}

// Run loops until the context is cancelled. The first sweep starts
// immediately.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		started := time.Now()
		slog.Info("Sweep started", "feeds", len(s.feeds))

		stats := s.pipeline.Sweep(ctx, s.feeds)

		s.mu.Lock()
		s.lastStats = stats
		s.lastSweep = started
		s.sweeps++
		s.mu.Unlock()

		slog.Info("Sweep completed",
			"duration", time.Since(started).Round(time.Millisecond).String(),
			"scanned", stats.Scanned,
			"published", stats.Published,
			"duplicates", stats.Duplicates,
			"stale", stats.Stale,
			"quota_skipped", stats.QuotaSkipped,
			"ignored", stats.Ignored,
			"errors", stats.Errors)

		timer.Reset(s.interval)
	}
}

// LastSweep returns the most recent sweep's stats, its start time, and the
// total number of completed sweeps
func (s *Scheduler) LastSweep() (Stats, time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastStats, s.lastSweep, s.sweeps
}
