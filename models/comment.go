package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment - represents user's comment
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"postId"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate - gorm hook assigning a fresh ID to new comments
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateCommentRequest - represents comment creation request
type CreateCommentRequest struct {
	Content string
}
