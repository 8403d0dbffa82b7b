package models

import "time"

// User is an account allowed to sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the authenticated caller handed to every core operation.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether s identifies a signed-in user.
func (s Session) Valid() bool {
	return s.ID != "" && s.UserID != 0
}
