package service

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=client_collaborators.go -destination=../mock/service_mock.go -package=mock

// AuthProvider reports the signed-in identity of this device.
//
// CurrentUserID is used to blank the user fields of inbound records that
// were authored by the signed-in user.
type AuthProvider interface {
	IsAuthenticated(ctx context.Context) bool
	CurrentToken(ctx context.Context) string
	CurrentUserID(ctx context.Context) int64
}

// Notifier shows one-shot messages to the user.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}
