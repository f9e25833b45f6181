package models

// Notification is a one-shot message shown to the user after a push that
// asked for it.
type Notification struct {
	Subject string
	Success bool
}
