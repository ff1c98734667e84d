package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User carries the public display fields joined into leaderboard responses.
// The table is owned by the platform's user service; this service reads it only.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Username    string    `bun:"username,notnull,unique"`
	DisplayName string    `bun:"display_name"`
	AvatarURL   string    `bun:"avatar_url"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	DeletedAt   time.Time `bun:"deleted_at,nullzero"`
}
