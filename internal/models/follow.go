package models

import "time"

// Follow is a directed edge from a follower to an author, optionally tagged
// with the post that triggered it. The (user, author) pair is unique; the
// datastore constraint is the final backstop against concurrent duplicates.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_follows_user_author"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index;uniqueIndex:idx_follows_user_author"`
	Author    *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID    *uint     `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
