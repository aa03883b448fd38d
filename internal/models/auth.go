package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest identifies the user signing in.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// SwitchUserRequest selects another seeded user for the current session.
type SwitchUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        User      `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the user they describe.
func (c *JWTClaims) Actor() *User {
	if c == nil {
		return nil
	}
	return &User{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}
