package models

import "encoding/json"

// Remote procedure names. They are the wire contract with the server.
const (
	ProcedureSignIn       = "user_signin"
	ProcedureSignUp       = "user_create"
	ProcedureTaskSave     = "task_save"
	ProcedureCommentAdd   = "comment_add"
	ProcedureTagSave      = "tag_save"
	ProcedureTagShow      = "tag_show"
	ProcedureGoalList     = "goal_list"
	ProcedureTaskList     = "task_list"
	ProcedureActivityList = "activity_list"
)

// ListProcedure returns the list procedure for a model name, e.g. "task"
// yields "task_list".
func ListProcedure(model string) string {
	return model + "_list"
}

// ListResponse is the body of every <model>_list call. Time is the server
// cursor to send back as modified_after on the next incremental fetch.
type ListResponse struct {
	List []json.RawMessage `json:"list"`
	Time int64             `json:"time"`
}

// SaveResponse is the body of task_save, comment_add and tag_save.
type SaveResponse struct {
	ID int64 `json:"id"`
}

// SignInResponse is the body of user_signin.
type SignInResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RemoteUser is the user object embedded into remote records.
type RemoteUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// RemoteTag is a tag reference inside a remote task.
type RemoteTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RemoteTask is a task as returned by task_list. Timestamps are epoch
// seconds.
type RemoteTask struct {
	ID           int64           `json:"id"`
	User         json.RawMessage `json:"user,omitempty"`
	CommentCount int             `json:"comment_count"`
	Title        string          `json:"title"`
	Importance   int             `json:"importance"`
	Due          int64           `json:"due"`
	HasDueTime   int             `json:"has_due_time,omitempty"`
	CompletedAt  int64           `json:"completed_at"`
	CreatedAt    int64           `json:"created_at"`
	DeletedAt    int64           `json:"deleted_at"`
	Repeat       string          `json:"repeat,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Tags         []RemoteTag     `json:"tags"`
}

// RemoteUpdate is an activity entry as returned by activity_list.
type RemoteUpdate struct {
	ID         int64           `json:"id"`
	User       json.RawMessage `json:"user,omitempty"`
	Action     string          `json:"action"`
	ActionCode string          `json:"action_code"`
	TargetName string          `json:"target_name"`
	Message    string          `json:"message"`
	Picture    string          `json:"picture"`
	CreatedAt  int64           `json:"created_at"`
}

// RemoteTagGroup is a tag group as returned by goal_list and tag_show.
type RemoteTagGroup struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	User     json.RawMessage `json:"user,omitempty"`
	Picture  string          `json:"picture,omitempty"`
	IsSilent bool            `json:"is_silent"`
	Members  []Member        `json:"members"`
}
