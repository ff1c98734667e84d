package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RankingEntry is one row of a computed leaderboard. Rows are only ever written
// wholesale by the ranking recomputation: every run deletes and re-inserts the
// full set for a (category, period) pair inside one transaction.
type RankingEntry struct {
	bun.BaseModel `bun:"table:ranking_entries,alias:re"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	Category     string    `bun:"category,notnull"`
	Period       string    `bun:"period,notnull"`
	Score        float64   `bun:"score,notnull"`
	Rank         int       `bun:"rank,notnull"`
	CalculatedAt time.Time `bun:"calculated_at,notnull"`
}
