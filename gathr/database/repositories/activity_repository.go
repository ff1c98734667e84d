package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr/database/models"
	"github.com/uptrace/bun"
)

// ActivityRepository exposes the read-only counting queries the statistics
// aggregator needs. All counts are grouped by user and scoped to the
// half-open interval [since, until); a zero bound means unbounded on that
// side.
type ActivityRepository interface {
	ActiveUserIDs(ctx context.Context) ([]int64, error)
	CountPostsByAuthor(ctx context.Context, since, until time.Time) (map[int64]int64, error)
	CountLikesReceived(ctx context.Context, since, until time.Time) (map[int64]int64, error)
	CountCommentsByAuthor(ctx context.Context, since, until time.Time) (map[int64]int64, error)
	CountFollowers(ctx context.Context, since, until time.Time) (map[int64]int64, error)
}

type activityRepository struct {
	db *bun.DB
	*BaseRepository
}

func NewActivityRepository(db *bun.DB) ActivityRepository {
	return &activityRepository{
		db:             db,
		BaseRepository: NewBaseRepository(db),
	}
}

type userCount struct {
	UserID int64 `bun:"user_id"`
	Count  int64 `bun:"count"`
}

func toCountMap(rows []userCount) map[int64]int64 {
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts
}

func (r *activityRepository) ActiveUserIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ids []int64
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("id").
		Where("deleted_at IS NULL").
		Order("id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, r.HandleError("ActiveUserIDs", "users", err)
	}
	return ids, nil
}

func (r *activityRepository) CountPostsByAuthor(ctx context.Context, since, until time.Time) (map[int64]int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	start := time.Now()
	var rows []userCount
	q := r.db.NewSelect().
		Model((*models.Post)(nil)).
		ColumnExpr("p.author_id AS user_id").
		ColumnExpr("COUNT(p.id) AS count").
		Where("p.deleted_at IS NULL").
		GroupExpr("p.author_id")
	if !since.IsZero() {
		q = q.Where("p.created_at >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("p.created_at < ?", until)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, r.HandleError("CountPostsByAuthor", "posts", err)
	}

	slog.Debug("Counted posts by author",
		slog.String("type", "db"),
		slog.Int("users", len(rows)),
		slog.Duration("took", time.Since(start)))
	return toCountMap(rows), nil
}

func (r *activityRepository) CountLikesReceived(ctx context.Context, since, until time.Time) (map[int64]int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []userCount
	q := r.db.NewSelect().
		Model((*models.PostLike)(nil)).
		ColumnExpr("p.author_id AS user_id").
		ColumnExpr("COUNT(pl.id) AS count").
		Join("JOIN posts AS p ON p.id = pl.post_id").
		Where("p.deleted_at IS NULL").
		GroupExpr("p.author_id")
	if !since.IsZero() {
		q = q.Where("pl.created_at >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("pl.created_at < ?", until)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, r.HandleError("CountLikesReceived", "post_likes", err)
	}
	return toCountMap(rows), nil
}

func (r *activityRepository) CountCommentsByAuthor(ctx context.Context, since, until time.Time) (map[int64]int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []userCount
	q := r.db.NewSelect().
		Model((*models.Comment)(nil)).
		ColumnExpr("c.author_id AS user_id").
		ColumnExpr("COUNT(c.id) AS count").
		Where("c.deleted_at IS NULL").
		GroupExpr("c.author_id")
	if !since.IsZero() {
		q = q.Where("c.created_at >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("c.created_at < ?", until)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, r.HandleError("CountCommentsByAuthor", "comments", err)
	}
	return toCountMap(rows), nil
}

func (r *activityRepository) CountFollowers(ctx context.Context, since, until time.Time) (map[int64]int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []userCount
	q := r.db.NewSelect().
		Model((*models.Follow)(nil)).
		ColumnExpr("f.followee_id AS user_id").
		ColumnExpr("COUNT(f.id) AS count").
		GroupExpr("f.followee_id")
	if !since.IsZero() {
		q = q.Where("f.created_at >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("f.created_at < ?", until)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, r.HandleError("CountFollowers", "follows", err)
	}
	return toCountMap(rows), nil
}
