package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/app"
)

func TestMapAdapterError(t *testing.T) {
	wrap := func(base error, msg string) error { return fmt.Errorf("%w: %s", base, msg) }

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "invalid data", in: wrap(adapter.ErrBadRequest, app.MsgInvalidDataProvided), want: ErrInvalidDataProvided},
		{name: "wrong password", in: wrap(adapter.ErrRemoteFailure, app.MsgInvalidEmailPassword), want: ErrWrongPassword},
		{name: "expired token", in: wrap(adapter.ErrUnauthorized, app.MsgTokenIsExpired), want: ErrTokenIsExpired},
		{name: "invalid token", in: wrap(adapter.ErrRemoteFailure, app.MsgTokenIsExpiredOrInvalid), want: ErrTokenExpiredOrInvalid},
		{name: "access denied in band", in: wrap(adapter.ErrRemoteFailure, app.MsgAccessDenied), want: ErrAccessDenied},
		{name: "not found in band", in: wrap(adapter.ErrRemoteFailure, app.MsgDataNotFound), want: ErrRemoteNotFound},
		{name: "forbidden", in: wrap(adapter.ErrForbidden, "nope"), want: ErrAccessDenied},
		{name: "not found", in: wrap(adapter.ErrNotFound, "gone"), want: ErrRemoteNotFound},
		{name: "email taken", in: wrap(adapter.ErrConflict, app.MsgEmailAlreadyExists), want: ErrEmailAlreadyExists},
		{name: "sign in failed", in: wrap(adapter.ErrBadGateway, app.MsgSignInFailed), want: ErrSignInOnServer},
		{name: "bad gateway", in: wrap(adapter.ErrBadGateway, "upstream"), want: ErrServerUnavailable},
		{name: "internal", in: wrap(adapter.ErrInternalServerError, app.MsgInternalServerError), want: ErrServerUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapAdapterError(tt.in), tt.want)
		})
	}
}

func TestMapAdapterError_Passthrough(t *testing.T) {
	assert.NoError(t, mapAdapterError(nil))

	other := errors.New("dial tcp: connection refused")
	assert.Same(t, other, mapAdapterError(other))

	unknown := fmt.Errorf("%w: %s", adapter.ErrRemoteFailure, "quota exceeded")
	assert.Equal(t, unknown, mapAdapterError(unknown))
	assert.ErrorIs(t, mapAdapterError(unknown), adapter.ErrRemoteFailure)
}

func TestMapAdapterError_InternalKeepsCause(t *testing.T) {
	err := mapAdapterError(fmt.Errorf("%w: boom", adapter.ErrInternalServerError))
	assert.ErrorIs(t, err, adapter.ErrInternalServerError)
}
