package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User - represents registered user
// PasswordHash is never exposed outside of the user service
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate - gorm hook assigning a fresh ID to new users
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Caller - identity of the user that sent the current request
type Caller struct {
	ID       string
	Username string
}

// LoginRequest - represents credentials that user inputs on login page.
// Login is either a username or an email
type LoginRequest struct {
	Login    string
	Password string
}

// RegistrationRequest - represents credentials that user inputs on registration page.
type RegistrationRequest struct {
	Username string
	Email    string
	Password string
}
