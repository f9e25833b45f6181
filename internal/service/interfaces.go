package service

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-task-sync/models"
)

// AuthService manages development server accounts and their tokens.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ProcedureService executes the authenticated remote procedures of the
// development server. Results are written as the success envelope.
type ProcedureService interface {
	Call(ctx context.Context, userID int64, procedure string, args url.Values) (Result, error)
}

// Result is the body of a successful procedure call, without "status".
type Result map[string]any

// AppInfoService reports build information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
