package models

import "time"

// Post is an authored entry, optionally tagged with a group. The author
// reference is mandatory and never changes after creation; the group
// reference is nullable and cleared when the group is deleted.
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	GroupID  *uint     `json:"group_id,omitempty" gorm:"index"`
	Group    *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Image    string    `json:"image,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text    string `json:"text" form:"text" validate:"required"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id"`
	Image   string `json:"image,omitempty" form:"image" validate:"omitempty,max=500"`
}

// UpdatePostRequest defines the request body for editing an existing post.
// The author and publish date are not editable.
type UpdatePostRequest struct {
	Text    string `json:"text" form:"text" validate:"required"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id"`
	Image   string `json:"image,omitempty" form:"image" validate:"omitempty,max=500"`
}
