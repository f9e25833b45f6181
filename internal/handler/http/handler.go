package http

import (
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

type Handler struct {
	services *service.Services

	// hasher verifies the "sig" argument. Nil disables the check.
	hasher *utils.Hasher
	ids    *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.ServerApp, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
	}
	if cfg.HashKey != "" {
		h.hasher = utils.NewHasher(cfg.HashKey)
	}

	logger.Info().Bool("signed", h.hasher != nil).Msg("http handler created")
	return h
}
