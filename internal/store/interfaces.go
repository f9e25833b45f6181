package store

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

// UserRepository stores development server accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
}

// RemoteRecordRepository stores the development server's tasks, tags and
// activity. Every save stamps ModifiedAt so list calls can filter by
// modified_after.
type RemoteRecordRepository interface {
	FindTask(ctx context.Context, id int64) (ServerTask, error)
	SaveTask(ctx context.Context, task ServerTask) (ServerTask, error)
	ListTasks(ctx context.Context, filter ServerListFilter) ([]ServerTask, error)

	FindTag(ctx context.Context, id int64) (ServerTag, error)
	FindTagByName(ctx context.Context, ownerID int64, name string) (ServerTag, error)
	SaveTag(ctx context.Context, tag ServerTag) (ServerTag, error)
	ListTags(ctx context.Context, filter ServerListFilter) ([]ServerTag, error)

	AddUpdate(ctx context.Context, update ServerUpdate) (ServerUpdate, error)
	ListUpdates(ctx context.Context, filter ServerListFilter) ([]ServerUpdate, error)
}

// ServerTask is a task as kept by the development server. Timestamps are
// epoch seconds.
type ServerTask struct {
	ID           int64
	OwnerID      int64
	Title        string
	Notes        string
	Importance   int
	Due          int64
	HasDueTime   bool
	Repeat       string
	CompletedAt  int64
	CreatedAt    int64
	DeletedAt    int64
	CommentCount int
	TagIDs       []int64
	ModifiedAt   int64
}

// ServerTag is a tag group as kept by the development server.
type ServerTag struct {
	ID         int64
	OwnerID    int64
	Name       string
	Picture    string
	Silent     bool
	Members    []models.Member
	ModifiedAt int64
}

// ServerUpdate is an activity entry as kept by the development server.
type ServerUpdate struct {
	ID         int64
	UserID     int64
	TagID      int64
	TaskID     int64
	Action     string
	ActionCode string
	TargetName string
	Message    string
	Picture    string
	CreatedAt  int64
	ModifiedAt int64
}

// ServerListFilter narrows list calls. VisibleTo limits results to records
// the user owns or is a member of; TagID scopes tasks and activity to one
// tag; ModifiedAfter drops records not modified since that epoch second.
type ServerListFilter struct {
	VisibleTo     int64
	TagID         int64
	ModifiedAfter int64
}
