package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles assignable to a user. Admins may mutate any post or comment.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account stored in PostgreSQL
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Username  string    `json:"username" gorm:"uniqueIndex"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role" gorm:"size:20;default:'user'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorSummary is the public slice of a user attached to posts and comments
// at read time.
type AuthorSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Summary returns the author view of the user.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// RegisterRequest defines the request body for user registration.
// Username defaults to Name when omitted.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the
// authenticated user's profile
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
