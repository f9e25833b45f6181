package models

// Update is a comment or activity entry attached to a tag group or a task.
//
// TagID and TaskID are local identifiers; at most one of them is expected to
// be set for a comment written on this device.
type Update struct {
	ID       int64 `json:"id"`
	RemoteID int64 `json:"remote_id"`

	TagID  int64 `json:"tag_id"`
	TaskID int64 `json:"task_id"`

	Message    string `json:"message"`
	Action     string `json:"action"`
	ActionCode string `json:"action_code"`
	TargetName string `json:"target_name"`
	Picture    string `json:"picture"`
	CreatedAt  int64  `json:"created_at"`

	UserID int64  `json:"user_id"`
	User   string `json:"user"`
}
