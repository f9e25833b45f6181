package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/workers"
	"github.com/MKhiriev/go-task-sync/models"
)

type App struct {
	services *service.ClientServices
	storage  io.Closer
	workers  *workers.Workers
	logger   *logger.Logger
}

// NewApp builds the runtime around already wired services. storage is
// closed by Close.
func NewApp(services *service.ClientServices, storage io.Closer, logger *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("client services are required")
	}

	return &App{
		services: services,
		storage:  storage,
		workers:  workers.NewWorkers(logger, services.PushListener, services.SyncJob),
		logger:   logger,
	}, nil
}

func (a *App) Services() *service.ClientServices {
	return a.services
}

// Run starts the push listener and the refresh worker and blocks until ctx
// is cancelled. Pushes in flight finish before Run returns.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.services.AuthService.Session(ctx); err != nil {
		return err
	}

	a.workers.Run(ctx)
	<-ctx.Done()
	a.workers.Stop()

	return nil
}

// Mutate runs fn with the push listener active, so a local write made by fn
// reaches the server before Mutate returns. Signed-out writes stay local.
func (a *App) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	a.services.PushListener.Start(ctx)
	defer a.services.PushListener.Stop()

	return fn(ctx)
}

// Sync refreshes every list once. manual fetches ignore the throttle and
// prune rows the server no longer reports.
func (a *App) Sync(ctx context.Context, manual bool) error {
	if _, err := a.services.AuthService.Session(ctx); err != nil {
		return err
	}
	return a.services.SyncService.RefreshAll(ctx, manual)
}

// Login signs in, pushes tasks created while signed out and runs a manual
// refresh.
func (a *App) Login(ctx context.Context, email, password string) (models.Session, error) {
	session, err := a.services.AuthService.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}

	if err = a.pushLocalTasks(ctx); err != nil {
		a.logger.Err(err).Str("func", "App.Login").Msg("failed to push local tasks")
	}
	if err = a.services.SyncService.RefreshAll(ctx, true); err != nil {
		return session, fmt.Errorf("initial sync: %w", err)
	}

	return session, nil
}

func (a *App) pushLocalTasks(ctx context.Context) error {
	tasks, err := a.services.TaskService.ListTasks(ctx, "", true)
	if err != nil {
		return err
	}

	var errs []error
	for _, task := range tasks {
		if task.RemoteID != 0 {
			continue
		}
		if err = a.services.SyncService.PushTaskByID(ctx, task.ID); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", task.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Close() error {
	a.workers.Stop()
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}
