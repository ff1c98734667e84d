package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Score(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	tests := []struct {
		name     string
		stats    UserActivityStats
		category RankingCategory
		want     float64
	}{
		{
			name:     "posts likes, likes only",
			stats:    UserActivityStats{LikesReceived: 10},
			category: CategoryPostsLikes,
			want:     10.00,
		},
		{
			name: "posts likes, mixed stats",
			stats: UserActivityStats{
				LikesReceived:  10,
				PostsCount:     5,
				CommentsCount:  4,
				FollowersCount: 2,
			},
			// 10*1.0 + 5*0.1 + 4*0.05 + 2*0.2
			category: CategoryPostsLikes,
			want:     11.10,
		},
		{
			name: "engagement",
			stats: UserActivityStats{
				LikesReceived:  10,
				CommentsCount:  10,
				PostsCount:     10,
				FollowersCount: 10,
			},
			// 10*0.4 + 10*0.3 + 10*0.2 + 10*0.1
			category: CategoryEngagement,
			want:     10.00,
		},
		{
			name: "weekly active ignores all-time stats",
			stats: UserActivityStats{
				LikesReceived: 1000,
				PostsCount:    1000,
				WeeklyPosts:   2,
				WeeklyLikes:   3,
				WeeklyComments: 4,
			},
			// 2*0.4 + 3*0.3 + 4*0.3
			category: CategoryWeeklyActive,
			want:     2.90,
		},
		{
			name: "monthly active",
			stats: UserActivityStats{
				MonthlyPosts:    10,
				MonthlyLikes:    20,
				MonthlyComments: 30,
			},
			// 10*0.4 + 20*0.3 + 30*0.3
			category: CategoryMonthlyActive,
			want:     19.00,
		},
		{
			name:     "all-zero stats score zero and stay rankable",
			stats:    UserActivityStats{},
			category: CategoryFollowersCount,
			want:     0.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Score(tt.stats, tt.category)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculator_Score_RoundsToTwoDecimals(t *testing.T) {
	calc := NewCalculator(map[RankingCategory]Weights{
		CategoryEngagement: {Likes: 0.333},
	})

	got, err := calc.Score(UserActivityStats{LikesReceived: 2}, CategoryEngagement)
	require.NoError(t, err)
	assert.InDelta(t, 0.67, got, 1e-9) // 0.666 rounds half-up to 0.67
}

func TestCalculator_Score_UnknownCategory(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	_, err := calc.Score(UserActivityStats{}, RankingCategory("bogus"))
	assert.Error(t, err)
}

// Increasing any positive-weighted stat must never decrease the score.
func TestCalculator_Score_Monotonic(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	base := UserActivityStats{
		PostsCount:      3,
		LikesReceived:   7,
		CommentsCount:   2,
		FollowersCount:  4,
		WeeklyPosts:     1,
		WeeklyLikes:     2,
		WeeklyComments:  3,
		MonthlyPosts:    4,
		MonthlyLikes:    5,
		MonthlyComments: 6,
	}

	bumps := map[string]func(UserActivityStats) UserActivityStats{
		"posts":            func(s UserActivityStats) UserActivityStats { s.PostsCount += 10; return s },
		"likes":            func(s UserActivityStats) UserActivityStats { s.LikesReceived += 10; return s },
		"comments":         func(s UserActivityStats) UserActivityStats { s.CommentsCount += 10; return s },
		"followers":        func(s UserActivityStats) UserActivityStats { s.FollowersCount += 10; return s },
		"weekly posts":     func(s UserActivityStats) UserActivityStats { s.WeeklyPosts += 10; return s },
		"weekly likes":     func(s UserActivityStats) UserActivityStats { s.WeeklyLikes += 10; return s },
		"weekly comments":  func(s UserActivityStats) UserActivityStats { s.WeeklyComments += 10; return s },
		"monthly posts":    func(s UserActivityStats) UserActivityStats { s.MonthlyPosts += 10; return s },
		"monthly likes":    func(s UserActivityStats) UserActivityStats { s.MonthlyLikes += 10; return s },
		"monthly comments": func(s UserActivityStats) UserActivityStats { s.MonthlyComments += 10; return s },
	}

	for _, category := range AllCategories() {
		baseScore, err := calc.Score(base, category)
		require.NoError(t, err)

		for stat, bump := range bumps {
			bumped, err := calc.Score(bump(base), category)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, bumped, baseScore,
				"category %s: bumping %s decreased the score", category, stat)
		}
	}
}
