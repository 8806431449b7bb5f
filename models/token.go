package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims - represents JWT token claims. It extends jwt.RegisteredClaims struct
// Subject holds the user ID
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
