// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. Unrecognised errors are returned unchanged.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if msg == app.MsgInvalidDataProvided {
			return ErrInvalidDataProvided
		}

	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrRemoteFailure):
		switch msg {
		case app.MsgInvalidEmailPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpired:
			return ErrTokenIsExpired
		case app.MsgTokenIsExpiredOrInvalid:
			return ErrTokenExpiredOrInvalid
		case app.MsgAccessDenied:
			return ErrAccessDenied
		case app.MsgDataNotFound:
			return ErrRemoteNotFound
		case app.MsgEmailAlreadyExists:
			return ErrEmailAlreadyExists
		}

	case errors.Is(err, adapter.ErrForbidden):
		return ErrAccessDenied

	case errors.Is(err, adapter.ErrNotFound):
		return ErrRemoteNotFound

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgEmailAlreadyExists {
			return ErrEmailAlreadyExists
		}

	case errors.Is(err, adapter.ErrBadGateway):
		if msg == app.MsgSignInFailed {
			return ErrSignInOnServer
		}
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)

	case errors.Is(err, adapter.ErrInternalServerError):
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
