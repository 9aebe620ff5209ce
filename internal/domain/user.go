package domain

import "time"

// User represents a registered account. The username is the unique
// identifier; the password is only ever held as a bcrypt hash.
type User struct {
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
