package ranking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedulerOrchestrator(agg Aggregator, store RankingStore) *Orchestrator {
	return NewOrchestrator(agg, NewCalculator(DefaultWeights()), store, OrchestratorConfig{Parallelism: 2})
}

// blockingAggregator lets a test hold a run open to simulate a slow tick.
type blockingAggregator struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingAggregator) Aggregate(ctx context.Context, userIDs []int64, window TimeWindow) (map[int64]UserActivityStats, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return map[int64]UserActivityStats{}, nil
}

func (b *blockingAggregator) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestSchedulerTick_RunsAllCategories(t *testing.T) {
	agg := &blockingAggregator{}
	store := newFakeStore()
	s := NewScheduler(newSchedulerOrchestrator(agg, store), time.Minute)

	s.tick(context.Background())

	assert.Equal(t, len(AllCategories()), agg.callCount())
	assert.Len(t, store.sets, len(AllCategories()))
}

func TestSchedulerTick_SkipsWhileRunInFlight(t *testing.T) {
	agg := &blockingAggregator{release: make(chan struct{})}
	store := newFakeStore()
	s := NewScheduler(newSchedulerOrchestrator(agg, store), time.Minute)

	done := make(chan struct{})
	go func() {
		s.tick(context.Background())
		close(done)
	}()

	// Wait for the first tick to get in flight.
	require.Eventually(t, func() bool {
		return agg.callCount() > 0
	}, time.Second, time.Millisecond)

	before := agg.callCount()
	s.tick(context.Background())
	assert.Equal(t, before, agg.callCount(), "overlapping tick must be skipped")

	close(agg.release)
	<-done
}

func TestSchedulerStart_DisabledWithoutInterval(t *testing.T) {
	agg := &blockingAggregator{}
	s := NewScheduler(newSchedulerOrchestrator(agg, newFakeStore()), 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, agg.callCount())
}
