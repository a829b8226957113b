package model

import "time"

// User is an account that generates worksheets.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	ProUntil     *time.Time `json:"pro_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPro reports whether the user's pro plan is active at now.
func (u *User) IsPro(now time.Time) bool {
	return u.ProUntil != nil && now.Before(*u.ProUntil)
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login or registration.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
	Pro   bool   `json:"pro"`
}
