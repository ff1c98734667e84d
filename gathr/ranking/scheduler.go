package ranking

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Scheduler invokes the orchestrator on a fixed interval. Recomputation is
// decoupled from any request lifecycle: the HTTP trigger and the ticker both
// call the same Orchestrator.Run, and a failed category is simply retried on
// the next tick.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	running      atomic.Bool
}

func NewScheduler(orchestrator *Orchestrator, interval time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
	}
}

// Start launches the background job. It returns immediately; the job stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		slog.Info("Ranking scheduler disabled",
			slog.String("type", "job"))
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("Ranking scheduler started",
			slog.String("type", "job"),
			slog.Duration("interval", s.interval))

		for {
			select {
			case <-ctx.Done():
				slog.Info("Ranking scheduler stopped", slog.String("type", "job"))
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func (s *Scheduler) tick(ctx context.Context) {
	// Skip the tick instead of stacking runs behind a slow one.
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("Skipping scheduled ranking run, previous run still in flight",
			slog.String("type", "job"))
		return
	}
	defer s.running.Store(false)

	results := s.orchestrator.Run(ctx, nil, nil)

	failed := 0
	for _, r := range results {
		if r.State != StateSucceeded {
			failed++
		}
	}
	if failed > 0 {
		slog.Warn("Scheduled ranking run finished with failures",
			slog.String("type", "job"),
			slog.Int("failed", failed),
			slog.Int("total", len(results)))
	}
}
