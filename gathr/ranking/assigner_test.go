package ranking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRanks_Empty(t *testing.T) {
	assert.Empty(t, AssignRanks(nil))
	assert.Empty(t, AssignRanks([]ScoredUser{}))
}

func TestAssignRanks_OrdersByScoreDescending(t *testing.T) {
	ranked := AssignRanks([]ScoredUser{
		{UserID: 1, Score: 5.0},
		{UserID: 2, Score: 20.0},
		{UserID: 3, Score: 10.0},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, []RankedUser{
		{UserID: 2, Score: 20.0, Rank: 1},
		{UserID: 3, Score: 10.0, Rank: 2},
		{UserID: 1, Score: 5.0, Rank: 3},
	}, ranked)
}

// Two users tied at 10.0 get distinct ranks decided by ascending user ID;
// there is no shared-rank semantics.
func TestAssignRanks_TieBreakByUserID(t *testing.T) {
	ranked := AssignRanks([]ScoredUser{
		{UserID: 9, Score: 10.0},
		{UserID: 3, Score: 5.0},
		{UserID: 4, Score: 10.0},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(4), ranked[0].UserID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, int64(9), ranked[1].UserID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, int64(3), ranked[2].UserID)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestAssignRanks_ContiguousRanks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	scored := make([]ScoredUser, 100)
	for i := range scored {
		scored[i] = ScoredUser{
			UserID: int64(i + 1),
			Score:  float64(rng.Intn(10)), // plenty of ties
		}
	}

	ranked := AssignRanks(scored)
	require.Len(t, ranked, len(scored))

	seen := make(map[int]bool, len(ranked))
	for _, r := range ranked {
		assert.False(t, seen[r.Rank], "duplicate rank %d", r.Rank)
		seen[r.Rank] = true
		assert.GreaterOrEqual(t, r.Rank, 1)
		assert.LessOrEqual(t, r.Rank, len(scored))
	}
}

// Shuffling the input must not change any rank assignment.
func TestAssignRanks_DeterministicAcrossInputOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	scored := make([]ScoredUser, 50)
	for i := range scored {
		scored[i] = ScoredUser{UserID: int64(i + 1), Score: float64(rng.Intn(5))}
	}

	first := AssignRanks(scored)

	shuffled := make([]ScoredUser, len(scored))
	copy(shuffled, scored)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second := AssignRanks(shuffled)
	assert.Equal(t, first, second)
}

func TestAssignRanks_DoesNotMutateInput(t *testing.T) {
	scored := []ScoredUser{
		{UserID: 1, Score: 1.0},
		{UserID: 2, Score: 2.0},
	}

	AssignRanks(scored)
	assert.Equal(t, int64(1), scored[0].UserID)
	assert.Equal(t, int64(2), scored[1].UserID)
}
