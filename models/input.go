package models

import "time"

// TaskInput carries user-entered task fields. Nil pointers are left
// unchanged on edit.
type TaskInput struct {
	Title      *string
	Notes      *string
	Importance *int
	Due        *time.Time
	DueHasTime bool
	Recurrence *string

	// Tags replaces the task's tag names when non-nil.
	Tags []string
}

// CommentInput is a new comment on a task or a tag group.
type CommentInput struct {
	Message    string
	TaskID     int64
	TagGroupID int64
}

// TagGroupInput is a new tag group.
type TagGroupInput struct {
	Name    string
	Members []Member

	// Notify asks for a notification once the server answers.
	Notify bool
}

// Credentials are the email and password sent to user_signin.
type Credentials struct {
	Email    string
	Password string
}
