package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr/database"
	"github.com/gathr-app/gathr-rankings/gathr/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB spins up an in-memory SQLite database with the real schema so the
// transactional replace semantics run against actual transactions.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Post)(nil),
		(*models.Comment)(nil),
		(*models.PostLike)(nil),
		(*models.Follow)(nil),
		(*models.RankingEntry)(nil),
	}
	for _, table := range tables {
		_, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, database.CreateRankingIndexes(ctx, db))

	return db
}

func seedUsers(t *testing.T, db *bun.DB, users ...*models.User) {
	t.Helper()
	_, err := db.NewInsert().Model(&users).Exec(context.Background())
	require.NoError(t, err)
}

func entry(userID int64, category, period string, score float64, rank int) *models.RankingEntry {
	return &models.RankingEntry{
		UserID:       userID,
		Category:     category,
		Period:       period,
		Score:        score,
		Rank:         rank,
		CalculatedAt: time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRankingRepository_ReplaceAndGetPage(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	seedUsers(t, db,
		&models.User{ID: 1, Username: "ada", DisplayName: "Ada", CreatedAt: time.Now()},
		&models.User{ID: 2, Username: "linus", DisplayName: "Linus", CreatedAt: time.Now()},
	)

	count, err := repo.Replace(ctx, "posts_likes", "all-time", []*models.RankingEntry{
		entry(1, "posts_likes", "all-time", 12.5, 1),
		entry(2, "posts_likes", "all-time", 7.25, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows, err := repo.GetPage(ctx, "posts_likes", "all-time", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].UserID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 12.5, rows[0].Score)
	assert.Equal(t, "ada", rows[0].Username)
	assert.Equal(t, "Ada", rows[0].DisplayName)
	assert.Equal(t, int64(2), rows[1].UserID)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestRankingRepository_ReplaceSupersedesPriorSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "engagement", "all-time", []*models.RankingEntry{
		entry(1, "engagement", "all-time", 3.0, 1),
		entry(2, "engagement", "all-time", 2.0, 2),
		entry(3, "engagement", "all-time", 1.0, 3),
	})
	require.NoError(t, err)

	// Recompute shrinks the set; the old rows must be fully superseded.
	_, err = repo.Replace(ctx, "engagement", "all-time", []*models.RankingEntry{
		entry(2, "engagement", "all-time", 9.0, 1),
	})
	require.NoError(t, err)

	rows, err := repo.GetPage(ctx, "engagement", "all-time", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].UserID)
	assert.Equal(t, 9.0, rows[0].Score)
}

func TestRankingRepository_ReplaceLeavesOtherPairsAlone(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "weekly_active", "2026-W35", []*models.RankingEntry{
		entry(1, "weekly_active", "2026-W35", 4.0, 1),
	})
	require.NoError(t, err)

	_, err = repo.Replace(ctx, "weekly_active", "2026-W36", []*models.RankingEntry{
		entry(1, "weekly_active", "2026-W36", 6.0, 1),
	})
	require.NoError(t, err)

	lastWeek, err := repo.GetPage(ctx, "weekly_active", "2026-W35", 10, 0)
	require.NoError(t, err)
	require.Len(t, lastWeek, 1)
	assert.Equal(t, 4.0, lastWeek[0].Score)
}

// A failing insert must roll the whole replacement back: no partial delete
// may survive, so readers keep the previous consistent set.
func TestRankingRepository_ReplaceIsAtomic(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "posts_count", "all-time", []*models.RankingEntry{
		entry(1, "posts_count", "all-time", 5.0, 1),
		entry(2, "posts_count", "all-time", 4.0, 2),
	})
	require.NoError(t, err)

	// Duplicate user in the new set violates the unique index mid-insert.
	_, err = repo.Replace(ctx, "posts_count", "all-time", []*models.RankingEntry{
		entry(3, "posts_count", "all-time", 9.0, 1),
		entry(3, "posts_count", "all-time", 8.0, 2),
	})
	require.Error(t, err)

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	rows, err := repo.GetPage(ctx, "posts_count", "all-time", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2, "prior ranking set must remain fully intact")
	assert.Equal(t, int64(1), rows[0].UserID)
	assert.Equal(t, 5.0, rows[0].Score)
	assert.Equal(t, int64(2), rows[1].UserID)
}

func TestRankingRepository_ReplaceEmptyClearsPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "followers_count", "all-time", []*models.RankingEntry{
		entry(1, "followers_count", "all-time", 2.0, 1),
	})
	require.NoError(t, err)

	count, err := repo.Replace(ctx, "followers_count", "all-time", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	rows, err := repo.GetPage(ctx, "followers_count", "all-time", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRankingRepository_ListPairs(t *testing.T) {
	db := newTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "posts_likes", "all-time", []*models.RankingEntry{
		entry(1, "posts_likes", "all-time", 1.0, 1),
	})
	require.NoError(t, err)
	_, err = repo.Replace(ctx, "weekly_active", "2026-W36", []*models.RankingEntry{
		entry(1, "weekly_active", "2026-W36", 1.0, 1),
	})
	require.NoError(t, err)

	pairs, err := repo.ListPairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryPeriod{
		{Category: "posts_likes", Period: "all-time"},
		{Category: "weekly_active", Period: "2026-W36"},
	}, pairs)
}
