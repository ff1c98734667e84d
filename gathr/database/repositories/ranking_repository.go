package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr/database/models"
	"github.com/uptrace/bun"
)

// LeaderboardRow is a ranking entry joined with the owning user's public
// display fields for rendering.
type LeaderboardRow struct {
	UserID       int64     `bun:"user_id" json:"userId"`
	Category     string    `bun:"category" json:"category"`
	Period       string    `bun:"period" json:"period"`
	Score        float64   `bun:"score" json:"score"`
	Rank         int       `bun:"rank" json:"rank"`
	CalculatedAt time.Time `bun:"calculated_at" json:"calculatedAt"`
	Username     string    `bun:"username" json:"username"`
	DisplayName  string    `bun:"display_name" json:"displayName"`
	AvatarURL    string    `bun:"avatar_url" json:"avatarUrl,omitempty"`
}

// CategoryPeriod identifies one persisted leaderboard partition.
type CategoryPeriod struct {
	Category string `bun:"category"`
	Period   string `bun:"period"`
}

type RankingRepository interface {
	// Replace atomically swaps the full ranking set for a (category, period)
	// pair: delete-then-insert inside one transaction. Readers see either the
	// fully-old or the fully-new set, never a mix. A unique-constraint
	// violation is returned as *ConflictError.
	Replace(ctx context.Context, category, period string, entries []*models.RankingEntry) (int, error)
	GetPage(ctx context.Context, category, period string, limit, offset int) ([]LeaderboardRow, error)
	ListPairs(ctx context.Context) ([]CategoryPeriod, error)
}

type rankingRepository struct {
	db *bun.DB
	*BaseRepository
}

func NewRankingRepository(db *bun.DB) RankingRepository {
	return &rankingRepository{
		db:             db,
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *rankingRepository) Replace(ctx context.Context, category, period string, entries []*models.RankingEntry) (int, error) {
	start := time.Now()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.RankingEntry)(nil)).
			Where("category = ?", category).
			Where("period = ?", period).
			Exec(ctx); err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		_, err := tx.NewInsert().Model(&entries).Exec(ctx)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, &ConflictError{
				Entity: "ranking_entries",
				Key:    category + "/" + period,
				Err:    err,
			}
		}
		return 0, r.HandleError("Replace", "ranking_entries", err)
	}

	slog.Debug("Replaced ranking set",
		slog.String("type", "db"),
		slog.String("category", category),
		slog.String("period", period),
		slog.Int("entries", len(entries)),
		slog.Duration("took", time.Since(start)))
	return len(entries), nil
}

func (r *rankingRepository) GetPage(ctx context.Context, category, period string, limit, offset int) ([]LeaderboardRow, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []LeaderboardRow
	err := r.db.NewSelect().
		TableExpr("ranking_entries AS re").
		ColumnExpr("re.user_id, re.category, re.period, re.score, re.rank, re.calculated_at").
		ColumnExpr("u.username, u.display_name, u.avatar_url").
		Join("LEFT JOIN users AS u ON u.id = re.user_id").
		Where("re.category = ?", category).
		Where("re.period = ?", period).
		OrderExpr("re.rank ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("GetPage", "ranking_entries", err)
	}
	return rows, nil
}

func (r *rankingRepository) ListPairs(ctx context.Context) ([]CategoryPeriod, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var pairs []CategoryPeriod
	err := r.db.NewSelect().
		TableExpr("ranking_entries AS re").
		ColumnExpr("DISTINCT re.category, re.period").
		OrderExpr("re.category ASC, re.period ASC").
		Scan(ctx, &pairs)
	if err != nil {
		return nil, r.HandleError("ListPairs", "ranking_entries", err)
	}
	return pairs, nil
}
