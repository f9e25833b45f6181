package client

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/mock"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

const defaultMinFetch = 5 * time.Minute

func newTestApp(t *testing.T) (*App, *mock.MockInvoker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	invoker := mock.NewMockInvoker(ctrl)

	cfg := config.ClientConfig{
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "sync.db")}},
		Sync:    config.ClientSync{MinFetchInterval: defaultMinFetch, Concurrency: 2},
		Workers: config.ClientWorkers{SyncInterval: defaultMinFetch},
	}

	storages, err := store.NewClientStorages(context.Background(), cfg.Storage, logger.Nop())
	require.NoError(t, err)

	services := service.NewClientServices(storages, invoker, nil, cfg, logger.Nop())
	app, err := NewApp(services, storages, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app, invoker
}

func body(fields string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"status":"success",%s}`, fields))
}

func TestNewApp_RequiresServices(t *testing.T) {
	_, err := NewApp(nil, nil, logger.Nop())
	assert.Error(t, err)
}

func TestApp_SignedOut(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.Sync(ctx, true), service.ErrNotAuthenticated)
	assert.ErrorIs(t, app.Run(ctx), service.ErrNotAuthenticated)

	// Signed-out writes stay local without calling the server.
	title := "water plants"
	err := app.Mutate(ctx, func(ctx context.Context) error {
		_, err := app.Services().TaskService.AddTask(ctx, models.TaskInput{Title: &title})
		return err
	})
	require.NoError(t, err)

	tasks, err := app.Services().TaskService.ListTasks(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Zero(t, tasks[0].RemoteID)
}

func TestApp_LoginPushesLocalTasksThenRefreshes(t *testing.T) {
	app, invoker := newTestApp(t)
	ctx := context.Background()

	title := "water plants"
	local, err := app.Services().TaskService.AddTask(ctx, models.TaskInput{Title: &title})
	require.NoError(t, err)

	gomock.InOrder(
		invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureSignIn, gomock.Any()).
			Return(body(`"token":"tok","id":7`), nil),
		invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureTaskSave, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, p models.Params) (json.RawMessage, error) {
				v, ok := p.Get("title")
				assert.True(t, ok)
				assert.Equal(t, title, v)
				return body(`"id":555`), nil
			}),
		invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureGoalList, gomock.Any()).
			Return(body(`"list":[],"time":100`), nil),
	)

	session, err := app.Login(ctx, "kim@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)

	tasks, err := app.Services().TaskService.ListTasks(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, local.ID, tasks[0].ID)
	assert.Equal(t, int64(555), tasks[0].RemoteID)
}

func TestApp_MutatePushesBeforeReturning(t *testing.T) {
	app, invoker := newTestApp(t)
	ctx := context.Background()

	invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureSignIn, gomock.Any()).
		Return(body(`"token":"tok","id":7`), nil)
	invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureGoalList, gomock.Any()).
		Return(body(`"list":[],"time":100`), nil)
	_, err := app.Login(ctx, "kim@example.com", "pw")
	require.NoError(t, err)

	invoker.EXPECT().Invoke(gomock.Any(), models.ProcedureTaskSave, gomock.Any()).
		Return(body(`"id":901`), nil).Times(1)

	title := "call Ann"
	var task models.Task
	err = app.Mutate(ctx, func(ctx context.Context) error {
		task, err = app.Services().TaskService.AddTask(ctx, models.TaskInput{Title: &title})
		return err
	})
	require.NoError(t, err)

	tasks, err := app.Services().TaskService.ListTasks(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, int64(901), tasks[0].RemoteID)

	// The second sync is throttled and makes no call.
	require.NoError(t, app.Sync(ctx, false))
}
