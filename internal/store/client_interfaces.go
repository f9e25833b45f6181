package store

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// TaskRepository is the local task table plus its tag associations.
//
// SaveTask inserts when task.ID is zero and otherwise updates only the
// columns named by changes. When changes.TagsChanged is set the tag
// associations are replaced in the same transaction. Subscribers of Changes
// are notified once, after commit.
type TaskRepository interface {
	FindTask(ctx context.Context, id int64) (models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	SaveTask(ctx context.Context, task *models.Task, changes models.ChangeSet) error
	SetTaskRemoteID(ctx context.Context, id, remoteID int64) error
	DeleteTask(ctx context.Context, id int64) error

	// FindTaskIDsByRemoteIDs returns (remote id, local id) pairs of rows
	// whose remote id is in remoteIDs, ordered by remote id then local id.
	FindTaskIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error)
	// FindTaskIDsByTag returns the remote-identified tasks tagged name.
	FindTaskIDsByTag(ctx context.Context, name string) ([]models.IDPair, error)

	Changes() *Feed[TaskChange]
}

// UpdateRepository is the local comment and activity table.
type UpdateRepository interface {
	FindUpdate(ctx context.Context, id int64) (models.Update, error)
	ListUpdates(ctx context.Context, filter UpdateFilter) ([]models.Update, error)
	SaveUpdate(ctx context.Context, update *models.Update, changes models.ChangeSet) error
	SetUpdateRemoteID(ctx context.Context, id, remoteID int64) error
	DeleteUpdate(ctx context.Context, id int64) error

	FindUpdateIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error)
	// FindUpdateIDsByTagGroup returns the remote-identified updates of a
	// local tag group.
	FindUpdateIDsByTagGroup(ctx context.Context, tagGroupID int64) ([]models.IDPair, error)

	Changes() *Feed[UpdateChange]
}

// TagGroupRepository is the local tag group table.
type TagGroupRepository interface {
	FindTagGroup(ctx context.Context, id int64) (models.TagGroup, error)
	FindTagGroupByName(ctx context.Context, name string) (models.TagGroup, error)
	ListTagGroups(ctx context.Context) ([]models.TagGroup, error)
	SaveTagGroup(ctx context.Context, group *models.TagGroup, changes models.ChangeSet) error
	SetTagGroupRemoteID(ctx context.Context, id, remoteID int64) error
	DeleteTagGroup(ctx context.Context, id int64) error

	FindTagGroupIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error)
	// FindRemoteTagGroupIDs returns every remote-identified tag group.
	FindRemoteTagGroupIDs(ctx context.Context) ([]models.IDPair, error)

	Changes() *Feed[TagGroupChange]
}

// WatermarkRepository is a persistent integer key/value store. Each Set is
// an atomic upsert of one key.
type WatermarkRepository interface {
	GetInt64(ctx context.Context, key string, def int64) (int64, error)
	SetInt64(ctx context.Context, key string, value int64) error
}

// SessionRepository keeps the single signed-in session of this device.
type SessionRepository interface {
	GetSession(ctx context.Context) (models.Session, error)
	SaveSession(ctx context.Context, session models.Session) error
	DeleteSession(ctx context.Context) error
}

// TaskChange is published after a committed task write.
type TaskChange struct {
	Task    models.Task
	Changes models.ChangeSet
}

// UpdateChange is published after a committed update write.
type UpdateChange struct {
	Update  models.Update
	Changes models.ChangeSet
}

// TagGroupChange is published after a committed tag group write.
type TagGroupChange struct {
	TagGroup models.TagGroup
	Changes  models.ChangeSet
}

// TaskFilter narrows ListTasks. Zero values match everything except
// deleted tasks, which are only listed with IncludeDeleted.
type TaskFilter struct {
	Tag              string
	IncludeCompleted bool
	IncludeDeleted   bool
}

// UpdateFilter narrows ListUpdates.
type UpdateFilter struct {
	TagGroupID int64
	TaskID     int64
	Limit      uint64
}
