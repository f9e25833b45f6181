package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

type pushListener struct {
	syncService ClientSyncService
	storages    *store.ClientStorages
	logger      *logger.Logger

	mu      sync.Mutex
	running bool
	unsubs  []func()
	wg      sync.WaitGroup
}

// NewPushListener subscribes the push pipeline to local writes once Start
// is called.
func NewPushListener(syncService ClientSyncService, storages *store.ClientStorages, logger *logger.Logger) PushListener {
	return &pushListener{syncService: syncService, storages: storages, logger: logger}
}

// Start implements PushListener. Each push runs on its own goroutine with a
// context that outlives ctx cancellation, so a write committed just before
// shutdown still reaches the server before Stop returns.
func (l *pushListener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true

	pushCtx := context.WithoutCancel(ctx)

	l.unsubs = append(l.unsubs,
		l.storages.Tasks.Changes().Subscribe(func(c store.TaskChange) {
			if c.Changes.Has(models.FieldRemoteID) {
				return
			}
			l.spawn(func() error { return l.syncService.PushTask(pushCtx, c.Task, c.Changes) })
		}),
		l.storages.Updates.Changes().Subscribe(func(c store.UpdateChange) {
			if c.Changes.Has(models.FieldRemoteID) || c.Update.RemoteID > 0 || !c.Changes.Has(models.FieldMessage) {
				return
			}
			l.spawn(func() error { return l.syncService.PushUpdate(pushCtx, c.Update, c.Changes) })
		}),
		l.storages.TagGroups.Changes().Subscribe(func(c store.TagGroupChange) {
			if c.Changes.Has(models.FieldRemoteID) {
				return
			}
			l.spawn(func() error { return l.syncService.PushTagGroup(pushCtx, c.TagGroup, c.Changes) })
		}),
	)
}

func (l *pushListener) spawn(push func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := push(); err != nil {
			l.logger.Err(err).Str("func", "pushListener.spawn").Msg("push failed")
		}
	}()
}

// Stop implements PushListener. It unsubscribes from the store and waits
// for pushes already in flight.
func (l *pushListener) Stop() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.running = false
	l.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	l.wg.Wait()
}
