package models

import (
	"time"

	"github.com/uptrace/bun"
)

// The tables below are owned by the platform's content services. The ranking
// engine touches them through read-only counting queries in the activity
// repository; the models exist so those queries and the local schema init can
// reference them.

type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement"`
	AuthorID  int64     `bun:"author_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	DeletedAt time.Time `bun:"deleted_at,nullzero"`
}

type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	AuthorID  int64     `bun:"author_id,notnull"`
	PostID    int64     `bun:"post_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	DeletedAt time.Time `bun:"deleted_at,nullzero"`
}

type PostLike struct {
	bun.BaseModel `bun:"table:post_likes,alias:pl"`

	ID        int64     `bun:"id,pk,autoincrement"`
	PostID    int64     `bun:"post_id,notnull"`
	UserID    int64     `bun:"user_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	ID         int64     `bun:"id,pk,autoincrement"`
	FollowerID int64     `bun:"follower_id,notnull"`
	FolloweeID int64     `bun:"followee_id,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}
