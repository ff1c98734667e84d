package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr/database/repositories"
)

// Aggregator produces per-user activity statistics for a window. A nil
// userIDs slice means all active users. Aggregation is read-only and fails
// wholesale: a partial stats map is never returned.
type Aggregator interface {
	Aggregate(ctx context.Context, userIDs []int64, window TimeWindow) (map[int64]UserActivityStats, error)
}

// StatsAggregator aggregates from the platform's content stores through the
// activity repository. The base counts are scoped to the window bounds; the
// weekly and monthly fields always cover the ISO week and calendar month
// containing the window anchor, since those feed the activity categories
// regardless of which window the run asked for.
type StatsAggregator struct {
	activity repositories.ActivityRepository
}

func NewStatsAggregator(activity repositories.ActivityRepository) *StatsAggregator {
	return &StatsAggregator{activity: activity}
}

func (a *StatsAggregator) Aggregate(ctx context.Context, userIDs []int64, window TimeWindow) (map[int64]UserActivityStats, error) {
	anchor := window.Anchor
	if anchor.IsZero() {
		anchor = time.Now().UTC()
	}

	if userIDs == nil {
		ids, err := a.activity.ActiveUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve active users: %w", err)
		}
		userIDs = ids
	}

	// Every requested user is rankable even with zero qualifying activity.
	stats := make(map[int64]UserActivityStats, len(userIDs))
	for _, id := range userIDs {
		stats[id] = UserActivityStats{}
	}

	posts, err := a.activity.CountPostsByAuthor(ctx, window.Since, window.Until)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	likes, err := a.activity.CountLikesReceived(ctx, window.Since, window.Until)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	comments, err := a.activity.CountCommentsByAuthor(ctx, window.Since, window.Until)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	followers, err := a.activity.CountFollowers(ctx, window.Since, window.Until)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	weekSince := weekStart(anchor)
	weekUntil := weekSince.AddDate(0, 0, 7)
	weeklyPosts, err := a.activity.CountPostsByAuthor(ctx, weekSince, weekUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly posts: %w", err)
	}
	weeklyLikes, err := a.activity.CountLikesReceived(ctx, weekSince, weekUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly likes: %w", err)
	}
	weeklyComments, err := a.activity.CountCommentsByAuthor(ctx, weekSince, weekUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly comments: %w", err)
	}

	monthSince := monthStart(anchor)
	monthUntil := monthSince.AddDate(0, 1, 0)
	monthlyPosts, err := a.activity.CountPostsByAuthor(ctx, monthSince, monthUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly posts: %w", err)
	}
	monthlyLikes, err := a.activity.CountLikesReceived(ctx, monthSince, monthUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly likes: %w", err)
	}
	monthlyComments, err := a.activity.CountCommentsByAuthor(ctx, monthSince, monthUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly comments: %w", err)
	}

	for id := range stats {
		stats[id] = UserActivityStats{
			PostsCount:      posts[id],
			LikesReceived:   likes[id],
			CommentsCount:   comments[id],
			FollowersCount:  followers[id],
			WeeklyPosts:     weeklyPosts[id],
			WeeklyLikes:     weeklyLikes[id],
			WeeklyComments:  weeklyComments[id],
			MonthlyPosts:    monthlyPosts[id],
			MonthlyLikes:    monthlyLikes[id],
			MonthlyComments: monthlyComments[id],
		}
	}

	return stats, nil
}
