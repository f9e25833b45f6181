package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

func renderTagGroups(groups []models.TagGroup) string {
	var b strings.Builder
	for _, g := range groups {
		line := fmt.Sprintf("%s  %d member(s)", tagStyle.Render("#"+g.Name), g.MemberCount)
		if g.Silent {
			line += "  muted"
		}
		if g.RemoteID == 0 {
			line += "  " + pendingStyle.Render("(local)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderTagGroup(group models.TagGroup, comments []models.Update) string {
	var b strings.Builder

	b.WriteString("Owner:   ")
	b.WriteString(userName(group.User))
	b.WriteString("\n")
	b.WriteString("Members:\n")
	if len(group.Members) == 0 {
		b.WriteString("  -\n")
	}
	for _, m := range group.Members {
		b.WriteString("  ")
		b.WriteString(memberLabel(m))
		b.WriteString("\n")
	}

	if len(comments) > 0 {
		b.WriteString("\nActivity:\n")
		b.WriteString(renderComments(comments))
	}

	return renderPage("#"+group.Name, b.String(), "")
}

func renderComments(comments []models.Update) string {
	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "  %s  %s: %s", formatMillis(c.CreatedAt, true), userName(c.User), c.Message)
		if c.RemoteID == 0 {
			b.WriteString("  ")
			b.WriteString(pendingStyle.Render("(local)"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func memberLabel(m models.Member) string {
	switch {
	case m.Name != "" && m.Email != "":
		return fmt.Sprintf("%s <%s>", m.Name, m.Email)
	case m.Name != "":
		return m.Name
	case m.Email != "":
		return m.Email
	default:
		return fmt.Sprintf("user %d", m.ID)
	}
}

// userName reads the display name from a stored user object. Records of
// the signed-in user carry no user object.
func userName(raw string) string {
	if raw == "" {
		return "you"
	}
	var u models.RemoteUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return "unknown"
	}
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return fmt.Sprintf("user %d", u.ID)
	}
}
