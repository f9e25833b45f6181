package service

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

// ClientSyncService is the client sync engine: it pushes local writes and
// merges server lists into the local store.
//
// Every method first consults the sync gate; without a session it returns
// nil and does nothing. Push and fetch failures are returned to the caller,
// who is expected to log them and move on; the engine never retries.
type ClientSyncService interface {
	// PushTask sends the fields of task named by changes with task_save,
	// creating the task on the server when it has no remote id yet.
	PushTask(ctx context.Context, task models.Task, changes models.ChangeSet) error

	// PushTaskByID pushes every server-known field and the tags of a stored
	// task. Unlike the other methods it reports ErrNotAuthenticated.
	PushTaskByID(ctx context.Context, localID int64) error

	// PushUpdate sends a new comment with comment_add.
	PushUpdate(ctx context.Context, update models.Update, changes models.ChangeSet) error

	// PushTagGroup sends the fields of group named by changes with tag_save.
	// When changes.NotifyOnComplete is set the user is notified of the
	// outcome.
	PushTagGroup(ctx context.Context, group models.TagGroup, changes models.ChangeSet) error

	// FetchTagGroups merges goal_list. done runs only after a successful
	// merge.
	FetchTagGroups(ctx context.Context, manual bool, done func()) error

	// FetchTasksForTagGroup merges task_list scoped to group.
	FetchTasksForTagGroup(ctx context.Context, group models.TagGroup, manual bool, done func()) error

	// FetchUpdatesForTagGroup merges activity_list scoped to group.
	FetchUpdatesForTagGroup(ctx context.Context, group models.TagGroup, manual bool, done func()) error

	// FetchTagGroupDetails merges tag_show into group and returns the
	// stored result.
	FetchTagGroupDetails(ctx context.Context, group models.TagGroup) (models.TagGroup, error)

	// RefreshAll fetches the tag group list and then the tasks and activity
	// of every server-known tag group.
	RefreshAll(ctx context.Context, manual bool) error
}

// ClientAuthService signs this device in and out.
type ClientAuthService interface {
	// Login calls user_signin and stores the returned session.
	Login(ctx context.Context, email, password string) (models.Session, error)
	// Logout forgets the session. Local data is kept.
	Logout(ctx context.Context) error
	// Session returns the stored session or ErrNotAuthenticated.
	Session(ctx context.Context) (models.Session, error)
}

// ClientTaskService performs local mutations. Each call is one local
// transaction; pushing is left to the push listeners.
type ClientTaskService interface {
	AddTask(ctx context.Context, input models.TaskInput) (models.Task, error)
	EditTask(ctx context.Context, localID int64, input models.TaskInput) (models.Task, error)
	CompleteTask(ctx context.Context, localID int64) (models.Task, error)
	ListTasks(ctx context.Context, tag string, includeCompleted bool) ([]models.Task, error)

	AddComment(ctx context.Context, input models.CommentInput) (models.Update, error)
	ListComments(ctx context.Context, tagGroupID, taskID int64, limit uint64) ([]models.Update, error)

	AddTagGroup(ctx context.Context, input models.TagGroupInput) (models.TagGroup, error)
	ListTagGroups(ctx context.Context) ([]models.TagGroup, error)
	FindTagGroup(ctx context.Context, name string) (models.TagGroup, error)
}

// ClientSyncJob periodically refreshes every list in the background.
type ClientSyncJob interface {
	// Start launches the refresh loop. A running loop is stopped first.
	Start(ctx context.Context)
	// Stop cancels the loop and waits for it to exit.
	Stop()
}

// PushListener pushes local writes to the server as they are committed.
type PushListener interface {
	Start(ctx context.Context)
	Stop()
}
