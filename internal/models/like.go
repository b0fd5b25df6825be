package models

import "time"

// Like is a row in the post like-set. The unique (user_id, post_id) index is
// what makes the toggle a true set: inserts of an existing membership are
// no-ops at the store layer. Rows are hard-deleted on unlike so the index can
// be re-satisfied by a later like.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
