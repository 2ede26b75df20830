package models

import "time"

// Comment represents a comment on a post. Comments are listed oldest first
// and are removed together with their post or their author.
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	PostID   uint      `json:"post_id" gorm:"not null;index"`
	Post     *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Created  time.Time `json:"created" gorm:"autoCreateTime;index"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Text string `json:"text" form:"text" validate:"required"`
}
