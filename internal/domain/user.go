package domain

import "time"

// User is the domain entity for a registered account. PasswordHash is a
// bcrypt digest; the raw password is never stored.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
