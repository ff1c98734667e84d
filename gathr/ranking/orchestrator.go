package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr/database/models"
	"github.com/gathr-app/gathr-rankings/gathr/logger"
	"github.com/gathr-app/gathr-rankings/gathr/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RunState tracks a (category, period) computation through its lifecycle.
type RunState string

const (
	StatePending     RunState = "pending"
	StateAggregating RunState = "aggregating"
	StateScoring     RunState = "scoring"
	StateRanking     RunState = "ranking"
	StatePersisting  RunState = "persisting"
	StateSucceeded   RunState = "succeeded"
	StateFailed      RunState = "failed"
)

// CategoryResult reports the outcome of one (category, period) pair. A failed
// pair never aborts the others; callers inspect the report to know which
// categories need re-triggering on the next cycle.
type CategoryResult struct {
	Category RankingCategory
	Period   string
	State    RunState
	Count    int
	Err      error
	Took     time.Duration
}

// RankingStore is the persistence boundary of the orchestrator: an atomic
// replacement of the full ranking set for one pair.
type RankingStore interface {
	Replace(ctx context.Context, category, period string, entries []*models.RankingEntry) (int, error)
}

// OrchestratorConfig carries the run-level knobs.
type OrchestratorConfig struct {
	// Maximum pairs computed concurrently. Pairs touch disjoint partitions of
	// the ranking table, so parallelism is bounded only by store load.
	Parallelism int
	// Hard deadline for one full run; zero means no deadline.
	RunTimeout time.Duration
	// Clock override for tests.
	Now func() time.Time
	// Called after each successful replacement, e.g. to drop cached pages.
	OnReplaced func(category, period string)
}

// Orchestrator drives the full pipeline per (category, period) pair:
// aggregate, score, rank, persist.
type Orchestrator struct {
	aggregator Aggregator
	calculator *Calculator
	store      RankingStore
	cfg        OrchestratorConfig
	locks      keyedMutex
}

func NewOrchestrator(aggregator Aggregator, calculator *Calculator, store RankingStore, cfg OrchestratorConfig) *Orchestrator {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		aggregator: aggregator,
		calculator: calculator,
		store:      store,
		cfg:        cfg,
	}
}

type pair struct {
	category RankingCategory
	period   string
	window   TimeWindow
}

// Run recomputes the requested categories. A nil categories slice means all
// known categories; a nil periods slice resolves each category to its current
// period. When explicit periods are given, combinations whose key does not
// match the category's cadence are skipped rather than failed.
func (o *Orchestrator) Run(ctx context.Context, categories []RankingCategory, periods []string) []CategoryResult {
	runID := uuid.NewString()
	now := o.cfg.Now().UTC()

	if o.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RunTimeout)
		defer cancel()
	}

	if categories == nil {
		categories = AllCategories()
	}

	var pairs []pair
	for _, category := range categories {
		if periods == nil {
			pairs = append(pairs, pair{
				category: category,
				period:   CurrentPeriod(category, now),
				window:   CurrentWindow(category, now),
			})
			continue
		}
		for _, period := range periods {
			window, err := PeriodWindow(category, period, now)
			if err != nil {
				continue
			}
			pairs = append(pairs, pair{category: category, period: period, window: window})
		}
	}

	slog.Info("Ranking recomputation starting",
		slog.String("type", "job"),
		slog.String("run_id", runID),
		slog.Int("pairs", len(pairs)))

	results := make([]CategoryResult, len(pairs))
	sem := semaphore.NewWeighted(int64(o.cfg.Parallelism))
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = CategoryResult{
					Category: p.category,
					Period:   p.period,
					State:    StateFailed,
					Err:      err,
				}
				return nil
			}
			defer sem.Release(1)

			results[i] = o.runPair(gctx, runID, p)
			// Pair failures are isolated: never propagate into the group.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *Orchestrator) runPair(ctx context.Context, runID string, p pair) CategoryResult {
	result := CategoryResult{
		Category: p.category,
		Period:   p.period,
		State:    StatePending,
	}
	start := time.Now()

	// Two concurrent recomputations of the same pair would race on
	// delete-then-insert; serialize them in-process. Across processes the
	// unique index turns the race into a retryable conflict.
	unlock := o.locks.lock(string(p.category) + "|" + p.period)
	defer unlock()

	fail := func(err error) CategoryResult {
		result.State = StateFailed
		result.Err = err
		result.Took = time.Since(start)
		metrics.ObserveRun(string(p.category), string(StateFailed), result.Took)
		logger.LogRun(string(p.category), p.period, 0, result.Took, err)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	result.State = StateAggregating
	stats, err := o.aggregator.Aggregate(ctx, nil, p.window)
	if err != nil {
		return fail(fmt.Errorf("aggregation failed: %w", err))
	}

	result.State = StateScoring
	scored := make([]ScoredUser, 0, len(stats))
	for userID, userStats := range stats {
		score, err := o.calculator.Score(userStats, p.category)
		if err != nil {
			return fail(err)
		}
		scored = append(scored, ScoredUser{UserID: userID, Score: score})
	}

	result.State = StateRanking
	ranked := AssignRanks(scored)

	result.State = StatePersisting
	calculatedAt := o.cfg.Now().UTC()
	entries := make([]*models.RankingEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = &models.RankingEntry{
			UserID:       r.UserID,
			Category:     string(p.category),
			Period:       p.period,
			Score:        r.Score,
			Rank:         r.Rank,
			CalculatedAt: calculatedAt,
		}
	}

	count, err := o.store.Replace(ctx, string(p.category), p.period, entries)
	if err != nil {
		return fail(fmt.Errorf("persistence failed: %w", err))
	}
	if o.cfg.OnReplaced != nil {
		o.cfg.OnReplaced(string(p.category), p.period)
	}

	result.State = StateSucceeded
	result.Count = count
	result.Took = time.Since(start)
	metrics.ObserveRun(string(p.category), string(StateSucceeded), result.Took)
	metrics.AddPersisted(string(p.category), count)
	logger.LogRun(string(p.category), p.period, count, result.Took, nil)

	slog.Debug("Pair recomputed",
		slog.String("type", "job"),
		slog.String("run_id", runID),
		slog.String("category", string(p.category)),
		slog.String("period", p.period))
	return result
}

// keyedMutex serializes work per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
