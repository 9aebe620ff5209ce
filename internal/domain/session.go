package domain

import "time"

// Session binds an opaque cookie token to the username that logged in with
// it. A token resolves to at most one user.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
