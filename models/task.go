package models

import "time"

// Importance levels, most urgent first.
const (
	ImportanceMustDo = iota
	ImportanceHigh
	ImportanceShouldDo
	ImportanceNone
)

// Task is the local representation of a synced task.
//
// ID is assigned by the local store and never changes. RemoteID is zero
// until the first successful task_save creates the task on the server.
// All timestamps are epoch milliseconds; zero means "unset".
type Task struct {
	ID       int64 `json:"id"`
	RemoteID int64 `json:"remote_id"`

	Title       string `json:"title"`
	DueDate     int64  `json:"due_date"`
	Notes       string `json:"notes"`
	CreatedAt   int64  `json:"created_at"`
	CompletedAt int64  `json:"completed_at"`
	DeletedAt   int64  `json:"deleted_at"`
	Importance  int    `json:"importance"`
	Recurrence  string `json:"recurrence"`

	// UserID and User describe the assignee as reported by the server.
	// Both are zero when the task belongs to the signed-in user.
	UserID int64  `json:"user_id"`
	User   string `json:"user"`

	CommentCount int `json:"comment_count"`

	// Tags holds the task's tag associations. It is populated on reads and
	// written only when the accompanying change set has TagsChanged.
	Tags []TaskTag `json:"tags,omitempty"`
}

// TaskTag associates a task with a tag by name. RemoteID is the tag's server
// identifier, or zero if the server has not assigned one yet.
type TaskTag struct {
	Name     string `json:"name"`
	RemoteID int64  `json:"remote_id"`
}

// HasDueTime reports whether the due date carries a specific time of day.
// Day-only due dates are stored at noon with a zero seconds component.
func (t Task) HasDueTime() bool {
	return t.DueDate > 0 && t.DueDate%60000 > 0
}

// IsCompleted reports whether the task has a completion timestamp.
func (t Task) IsCompleted() bool {
	return t.CompletedAt > 0
}

// IsDeleted reports whether the task has a deletion timestamp.
func (t Task) IsDeleted() bool {
	return t.DeletedAt > 0
}

// NewDueDate encodes at as a due date in epoch milliseconds. Without a time
// the date is pinned to noon with zero seconds; with a time the minute is
// kept and the seconds component is set to one so HasDueTime can tell the
// two apart. A zero time yields zero.
func NewDueDate(at time.Time, withTime bool) int64 {
	if at.IsZero() || at.UnixMilli() <= 0 {
		return 0
	}

	if !withTime {
		noon := time.Date(at.Year(), at.Month(), at.Day(), 12, 0, 0, 0, at.Location())
		return noon.UnixMilli()
	}

	minute := time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), 1, 0, at.Location())
	return minute.UnixMilli()
}
