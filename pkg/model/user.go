package model

import (
	"database/sql"
	"time"
)

// User is a field worker who receives assignments
type User struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone"`
	PasswordHash sql.NullString `db:"password_hash" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`

	Assignments []Assignment `db:"-" json:"assignments"`
}

// UserCreateRequest is the payload for POST /api/users
type UserCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// UserUpdateRequest is the payload for PUT /api/users/id/:id
type UserUpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UserPhoneUpdateRequest is the payload for PUT /api/users, keyed by phone
type UserPhoneUpdateRequest struct {
	Phone    string  `json:"phone" binding:"required"`
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// LoginRequest is used for POST /api/auth/login; one of phone or email is required
type LoginRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
