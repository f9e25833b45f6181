package models

import "time"

// Session is the persisted sign-in state of the client.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValid reports whether the session carries a token.
func (s Session) IsValid() bool {
	return s.Token != ""
}
