// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is unique case-insensitively — the
// repository stores it lowercased so "A@x.com" and "a@x.com" are the same
// account.
//
// PasswordHash holds the bcrypt digest of the user's password. The `json:"-"`
// tag guarantees the digest can never leak into an API response, no matter
// which handler serialises the struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
