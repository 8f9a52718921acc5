package models

import (
	"database/sql"
	"time"
)

// Session is a bearer-token session row. Exactly one of UserID/AdminID is
// set: user sessions authorize the regular API, admin sessions the
// administrative one. A session is usable only while now < ExpiresAt; an
// expired row is logically absent even if still stored.
type Session struct {
	ID        int64         `json:"id"`
	UserID    sql.NullInt64 `json:"-"`
	AdminID   sql.NullInt64 `json:"-"`
	Token     string        `json:"-"`
	ExpiresAt time.Time     `json:"expiresAt"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Expired reports whether the session is dead at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
