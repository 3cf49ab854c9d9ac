package model

import "time"

// User is an account that may sign in to the admin screens.
// Only active superusers are let in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Active       bool      `json:"active"`
	Superuser    bool      `json:"superuser"`
	CreatedAt    time.Time `json:"created_at"`
}
