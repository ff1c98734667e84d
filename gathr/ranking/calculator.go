package ranking

import (
	"fmt"
	"math"
)

// Calculator turns a statistics tuple into a category score. It is pure: no
// I/O, no clock, deterministic for identical input.
type Calculator struct {
	weights map[RankingCategory]Weights
}

// NewCalculator creates a calculator with the given weight table. The map is
// copied so later mutation by the caller cannot change scoring.
func NewCalculator(weights map[RankingCategory]Weights) *Calculator {
	copied := make(map[RankingCategory]Weights, len(weights))
	for category, w := range weights {
		copied[category] = w
	}
	return &Calculator{weights: copied}
}

// Score computes the weighted linear combination of stats for a category,
// rounded half-up to two decimal places. All-zero stats score 0.00 and remain
// rankable.
func (c *Calculator) Score(stats UserActivityStats, category RankingCategory) (float64, error) {
	w, ok := c.weights[category]
	if !ok {
		return 0, fmt.Errorf("no weights configured for category %q", category)
	}

	score := w.Posts*float64(stats.PostsCount) +
		w.Likes*float64(stats.LikesReceived) +
		w.Comments*float64(stats.CommentsCount) +
		w.Followers*float64(stats.FollowersCount) +
		w.WeeklyPosts*float64(stats.WeeklyPosts) +
		w.WeeklyLikes*float64(stats.WeeklyLikes) +
		w.WeeklyComments*float64(stats.WeeklyComments) +
		w.MonthlyPosts*float64(stats.MonthlyPosts) +
		w.MonthlyLikes*float64(stats.MonthlyLikes) +
		w.MonthlyComments*float64(stats.MonthlyComments)

	return round2(score), nil
}

// round2 rounds to two decimals, half-up. Stats and weights are non-negative,
// so half away from zero is half-up here.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
