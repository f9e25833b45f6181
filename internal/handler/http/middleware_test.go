// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

func TestResponseFromError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: %w: title", service.ErrInvalidDataProvided, service.ErrMissingParameter), http.StatusBadRequest, app.MsgInvalidDataProvided},
		{service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidEmailPassword},
		{service.ErrTokenIsExpired, http.StatusUnauthorized, app.MsgTokenIsExpired},
		{service.ErrTokenExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
		{service.ErrAccessDenied, http.StatusForbidden, app.MsgAccessDenied},
		{service.ErrRemoteNotFound, http.StatusNotFound, app.MsgDataNotFound},
		{fmt.Errorf("find: %w", store.ErrNotFound), http.StatusNotFound, app.MsgDataNotFound},
		{service.ErrUnknownProcedure, http.StatusNotFound, app.MsgUnknownProcedure},
		{service.ErrEmailAlreadyExists, http.StatusConflict, app.MsgEmailAlreadyExists},
		{service.ErrTokenCreationFailed, http.StatusBadGateway, app.MsgSignInFailed},
		{errors.New("boom"), http.StatusInternalServerError, app.MsgInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := responseFromError(tt.err)
			assert.Equal(t, tt.status, got.status)
			assert.Equal(t, tt.message, got.message)
		})
	}
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	token, err := getTokenFromAuthHeader("Bearer abc")
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = getTokenFromAuthHeader("Bearer")
	assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader)

	_, err = getTokenFromAuthHeader("Bearer ")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestTokenFromRequest_NoToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/goal_list", nil)
	_, err := tokenFromRequest(r)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestProcedureArgs(t *testing.T) {
	args := procedureArgs(url.Values{"token": {"t"}, "sig": {"s"}, "title": {"milk"}, "tags[]": {"a", "b"}})
	assert.Equal(t, url.Values{"title": {"milk"}, "tags[]": {"a", "b"}}, args)
}

func TestResponseWriter_RecordsStatusOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	n, err := w.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusTeapot, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
