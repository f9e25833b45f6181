package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/mock"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	testToken  = "tok"
	testUserID = int64(1)
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestStorages opens migrated client storage in a temp dir.
func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "sync.db")}}
	storages, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	return storages
}

type syncFixture struct {
	invoker  *mock.MockInvoker
	notifier *mock.MockNotifier
	storages *store.ClientStorages
	clock    *fakeClock
	svc      *clientSyncService
}

func newSyncFixture(t *testing.T, signedIn bool) *syncFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	invoker := mock.NewMockInvoker(ctrl)
	notifier := mock.NewMockNotifier(ctrl)
	auth := mock.NewMockAuthProvider(ctrl)

	auth.EXPECT().IsAuthenticated(gomock.Any()).Return(signedIn).AnyTimes()
	auth.EXPECT().CurrentToken(gomock.Any()).Return(testToken).AnyTimes()
	auth.EXPECT().CurrentUserID(gomock.Any()).Return(testUserID).AnyTimes()

	storages := newTestStorages(t)
	clock := newFakeClock()
	svc := newClientSyncService(invoker, storages, auth, notifier, config.ClientSync{}, clock.Now, logger.Nop())

	return &syncFixture{invoker: invoker, notifier: notifier, storages: storages, clock: clock, svc: svc}
}

// captured records the params of every invoke.
type captured struct {
	mu    sync.Mutex
	calls []models.Params
}

func (c *captured) add(p models.Params) {
	c.mu.Lock()
	c.calls = append(c.calls, p)
	c.mu.Unlock()
}

func (c *captured) all() []models.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Params(nil), c.calls...)
}

func success(fields string) json.RawMessage {
	if fields == "" {
		return json.RawMessage(`{"status":"success"}`)
	}
	return json.RawMessage(`{"status":"success",` + fields + `}`)
}

func listBody(t *testing.T, cursor int64, items ...any) json.RawMessage {
	t.Helper()
	if items == nil {
		items = []any{}
	}
	raw, err := json.Marshal(map[string]any{"status": "success", "list": items, "time": cursor})
	require.NoError(t, err)
	return raw
}

func param(t *testing.T, p models.Params, name string) any {
	t.Helper()
	v, ok := p.Get(name)
	require.Truef(t, ok, "param %q missing in %v", name, p.Names())
	return v
}

func saveTask(t *testing.T, s *store.ClientStorages, task models.Task, fields ...models.Field) models.Task {
	t.Helper()
	changes := models.NewChangeSet(fields...)
	changes.TagsChanged = len(task.Tags) > 0
	require.NoError(t, s.Tasks.SaveTask(context.Background(), &task, changes))
	return task
}

func saveTagGroup(t *testing.T, s *store.ClientStorages, group models.TagGroup) models.TagGroup {
	t.Helper()
	require.NoError(t, s.TagGroups.SaveTagGroup(context.Background(), &group,
		models.NewChangeSet(models.FieldName, models.FieldRemoteID, models.FieldMembers)))
	return group
}
