package ranking

import "fmt"

// RankingCategory is one scoring dimension of the leaderboards. The set is
// fixed at build time.
type RankingCategory string

const (
	CategoryPostsLikes     RankingCategory = "posts_likes"
	CategoryPostsCount     RankingCategory = "posts_count"
	CategoryCommentsCount  RankingCategory = "comments_count"
	CategoryFollowersCount RankingCategory = "followers_count"
	CategoryEngagement     RankingCategory = "engagement"
	CategoryWeeklyActive   RankingCategory = "weekly_active"
	CategoryMonthlyActive  RankingCategory = "monthly_active"
)

// Cadence is the recomputation time-bucketing of a category.
type Cadence int

const (
	CadenceAllTime Cadence = iota
	CadenceWeekly
	CadenceMonthly
)

// AllCategories returns every known category, in a stable order.
func AllCategories() []RankingCategory {
	return []RankingCategory{
		CategoryPostsLikes,
		CategoryPostsCount,
		CategoryCommentsCount,
		CategoryFollowersCount,
		CategoryEngagement,
		CategoryWeeklyActive,
		CategoryMonthlyActive,
	}
}

// ParseCategory validates a wire-level category string.
func ParseCategory(s string) (RankingCategory, error) {
	category := RankingCategory(s)
	for _, known := range AllCategories() {
		if category == known {
			return category, nil
		}
	}
	return "", fmt.Errorf("unknown ranking category %q", s)
}

// Cadence returns how a category's leaderboard is bucketed over time.
func (c RankingCategory) Cadence() Cadence {
	switch c {
	case CategoryWeeklyActive:
		return CadenceWeekly
	case CategoryMonthlyActive:
		return CadenceMonthly
	default:
		return CadenceAllTime
	}
}

func (c RankingCategory) String() string {
	return string(c)
}

// UserActivityStats is the per-user statistics tuple one aggregation pass
// produces. It is computed on demand and never persisted.
type UserActivityStats struct {
	PostsCount     int64
	LikesReceived  int64
	CommentsCount  int64
	FollowersCount int64

	WeeklyPosts    int64
	WeeklyLikes    int64
	WeeklyComments int64

	MonthlyPosts    int64
	MonthlyLikes    int64
	MonthlyComments int64
}

// Weights maps each statistic to its contribution for one category. Zero
// means the statistic does not participate.
type Weights struct {
	Posts     float64
	Likes     float64
	Comments  float64
	Followers float64

	WeeklyPosts    float64
	WeeklyLikes    float64
	WeeklyComments float64

	MonthlyPosts    float64
	MonthlyLikes    float64
	MonthlyComments float64
}

// DefaultWeights is the deployed weight table. Weights are design constants;
// they are injected into the Calculator rather than read from module state so
// a deployment can swap them without touching the scoring code.
func DefaultWeights() map[RankingCategory]Weights {
	return map[RankingCategory]Weights{
		CategoryPostsLikes: {
			Likes:     1.0,
			Posts:     0.1,
			Comments:  0.05,
			Followers: 0.2,
		},
		CategoryPostsCount: {
			Posts:     1.0,
			Likes:     0.1,
			Comments:  0.2,
			Followers: 0.05,
		},
		CategoryCommentsCount: {
			Comments:  1.0,
			Posts:     0.2,
			Likes:     0.1,
			Followers: 0.05,
		},
		CategoryFollowersCount: {
			Followers: 1.0,
			Posts:     0.1,
			Likes:     0.2,
			Comments:  0.05,
		},
		CategoryEngagement: {
			Likes:     0.4,
			Comments:  0.3,
			Posts:     0.2,
			Followers: 0.1,
		},
		CategoryWeeklyActive: {
			WeeklyPosts:    0.4,
			WeeklyLikes:    0.3,
			WeeklyComments: 0.3,
		},
		CategoryMonthlyActive: {
			MonthlyPosts:    0.4,
			MonthlyLikes:    0.3,
			MonthlyComments: 0.3,
		},
	}
}
