package models

import "time"

// User is an account known to the development server.
type User struct {
	// UserID is the server identifier; it is the "sub" claim of issued tokens.
	UserID int64 `json:"id"`

	// Email is the unique sign-in identifier.
	Email string `json:"email"`

	// Name is the display name shown to other tag group members.
	Name string `json:"name"`

	// PasswordHash is the HMAC of the password. Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// Remote returns the user object embedded into remote records.
func (u User) Remote() RemoteUser {
	return RemoteUser{ID: u.UserID, Name: u.Name, Email: u.Email}
}
