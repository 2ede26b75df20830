package models

// Group is a named, slugged collection of posts. Deleting a group never
// deletes its posts; their group reference is cleared instead.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;uniqueIndex;not null"`
	Slug        string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
}

// CreateGroupRequest defines the request body for creating a new group
type CreateGroupRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Slug        string `json:"slug" form:"slug" validate:"required,max=100,excludesall= /"`
	Description string `json:"description" form:"description"`
}
