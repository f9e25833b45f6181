package models

import "fmt"

// TagGroup is a shared tag ("goal") with its members.
type TagGroup struct {
	ID       int64 `json:"id"`
	RemoteID int64 `json:"remote_id"`

	Name        string   `json:"name"`
	Members     []Member `json:"members"`
	MemberCount int      `json:"member_count"`
	Picture     string   `json:"picture"`
	Silent      bool     `json:"silent"`

	UserID int64  `json:"user_id"`
	User   string `json:"user"`
}

// Member is a tag group participant. ID is set for members already known to
// the server; invitations by address carry only Name and Email.
type Member struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Wire returns the member as tag_save expects it: the remote id when known,
// otherwise "name <email>" or the bare email.
func (m Member) Wire() any {
	switch {
	case m.ID > 0:
		return m.ID
	case m.Name != "" && m.Email != "":
		return fmt.Sprintf("%s <%s>", m.Name, m.Email)
	default:
		return m.Email
	}
}
