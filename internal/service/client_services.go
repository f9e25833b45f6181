package service

import (
	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
)

type ClientServices struct {
	Auth         AuthProvider
	AuthService  ClientAuthService
	TaskService  ClientTaskService
	SyncService  ClientSyncService
	SyncJob      ClientSyncJob
	PushListener PushListener
}

// NewClientServices wires the client services around one local store and
// one transport. notifier may be nil.
func NewClientServices(storages *store.ClientStorages, invoker adapter.Invoker, notifier Notifier, cfg config.ClientConfig, logger *logger.Logger) *ClientServices {
	validator := validators.NewInputValidator()
	auth := NewSessionAuthProvider(storages.Session, logger)
	syncSvc := NewClientSyncService(invoker, storages, auth, notifier, cfg.Sync, logger)

	return &ClientServices{
		Auth:         auth,
		AuthService:  NewClientAuthService(invoker, storages.Session, validator, logger),
		TaskService:  NewClientTaskService(storages, validator, logger),
		SyncService:  syncSvc,
		SyncJob:      NewClientSyncJob(syncSvc, cfg.Workers.SyncInterval, logger),
		PushListener: NewPushListener(syncSvc, storages, logger),
	}
}
