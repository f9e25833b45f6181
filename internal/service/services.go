package service

import (
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

// Services are the development server services.
type Services struct {
	AuthService      AuthService
	ProcedureService ProcedureService
	AppInfoService   AppInfoService
}

func NewServices(storages *store.ServerStorages, cfg config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:      NewAuthService(storages.Users, cfg.App, logger),
		ProcedureService: NewProcedureService(storages.Users, storages.Records, logger),
		AppInfoService:   appInfoService,
	}, nil
}
