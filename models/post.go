package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility - access-control tag of a post
type Visibility string

// post visibilities
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid - reports whether v is one of the known visibilities
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Post - represents blog post
// @ID - UUID generated on insert
// @AuthorID - ID of the user that owns this post
// @Comments - comments ordered by creation time
type Post struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Visibility Visibility `gorm:"type:varchar(16);not null;default:public;index" json:"visibility"`
	AuthorID   string     `gorm:"type:uuid;not null;index" json:"authorId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Comments   []Comment  `gorm:"constraint:OnDelete:CASCADE" json:"comments"`
}

// BeforeCreate - gorm hook assigning a fresh ID to new posts
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublic - reports whether the post can be read by anyone
func (p *Post) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

// CreatePostRequest - represents post creation request
type CreatePostRequest struct {
	Title      string
	Content    string
	Visibility *Visibility
}

// UpdatePostRequest - represents partial post update request
// Nil fields are left untouched
type UpdatePostRequest struct {
	Title      *string
	Content    *string
	Visibility *Visibility
}

// Empty - reports whether the request carries no changes
func (r *UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Visibility == nil
}

// Apply - copies every supplied field onto the post
func (r *UpdatePostRequest) Apply(post *Post) {
	if r.Title != nil {
		post.Title = *r.Title
	}
	if r.Content != nil {
		post.Content = *r.Content
	}
	if r.Visibility != nil {
		post.Visibility = *r.Visibility
	}
}

// Columns - returns the supplied fields keyed by column name
func (r *UpdatePostRequest) Columns() map[string]interface{} {
	columns := make(map[string]interface{})
	if r.Title != nil {
		columns["title"] = *r.Title
	}
	if r.Content != nil {
		columns["content"] = *r.Content
	}
	if r.Visibility != nil {
		columns["visibility"] = *r.Visibility
	}
	return columns
}
