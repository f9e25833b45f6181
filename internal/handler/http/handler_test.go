// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

func newTestServer(t *testing.T, hashKey string) *httptest.Server {
	t.Helper()

	cfg := config.ServerConfig{App: config.ServerApp{
		TokenSignKey:    "sign-key",
		TokenIssuer:     "devserver",
		TokenDuration:   time.Hour,
		PasswordHashKey: "pw-key",
		HashKey:         hashKey,
		Version:         "1.2.3",
	}}

	services, err := service.NewServices(store.NewServerStorages(logger.Nop()), cfg, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(services, cfg.App, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

type envelope map[string]any

func post(t *testing.T, srv *httptest.Server, procedure string, form url.Values) (int, envelope) {
	t.Helper()

	resp, err := srv.Client().PostForm(srv.URL+"/api/"+procedure, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func signUp(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	status, body := post(t, srv, "user_create", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, status, body)
	require.Equal(t, "success", body["status"])

	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestHandler_SignUpAndSignIn(t *testing.T) {
	srv := newTestServer(t, "")
	signUp(t, srv, "kim@example.com")

	status, body := post(t, srv, "user_signin", url.Values{"email": {"kim@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["token"])
	assert.EqualValues(t, 1, body["id"])

	status, body = post(t, srv, "user_signin", url.Values{"email": {"kim@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, envelope{"status": "error", "message": app.MsgInvalidEmailPassword}, body)

	status, body = post(t, srv, "user_create", url.Values{"email": {"kim@example.com"}, "password": {"other"}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, app.MsgEmailAlreadyExists, body["message"])

	status, body = post(t, srv, "user_create", url.Values{"email": {""}, "password": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, app.MsgInvalidDataProvided, body["message"])
}

func TestHandler_ProcedureNeedsToken(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "no token", want: app.MsgTokenIsExpiredOrInvalid},
		{name: "garbage token", token: "not-a-jwt", want: app.MsgTokenIsExpiredOrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"modified_after": {"0"}}
			if tt.token != "" {
				form.Set("token", tt.token)
			}
			status, body := post(t, srv, "goal_list", form)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.want, body["message"])
		})
	}
}

func TestHandler_TagSaveAndGoalList(t *testing.T) {
	srv := newTestServer(t, "")
	token := signUp(t, srv, "kim@example.com")

	status, body := post(t, srv, "tag_save", url.Values{"token": {token}, "name": {"home"}, "members": {""}})
	require.Equal(t, http.StatusOK, status, body)
	tagID := body["id"]
	require.NotNil(t, tagID)

	status, body = post(t, srv, "goal_list", url.Values{"token": {token}, "modified_after": {"0"}})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "success", body["status"])
	assert.Contains(t, body, "time")

	list, ok := body["list"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	item := list[0].(map[string]any)
	assert.Equal(t, tagID, item["id"])
	assert.Equal(t, "home", item["name"])
}

func TestHandler_BearerHeader(t *testing.T) {
	srv := newTestServer(t, "")
	token := signUp(t, srv, "kim@example.com")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/goal_list", strings.NewReader("modified_after=0"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Errors(t *testing.T) {
	srv := newTestServer(t, "")
	token := signUp(t, srv, "kim@example.com")

	status, body := post(t, srv, "no_such_call", url.Values{"token": {token}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, app.MsgUnknownProcedure, body["message"])

	status, body = post(t, srv, "tag_show", url.Values{"token": {token}, "id": {"999"}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, app.MsgDataNotFound, body["message"])

	status, body = post(t, srv, "task_save", url.Values{"token": {token}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, app.MsgInvalidDataProvided, body["message"])
}

func TestHandler_Signature(t *testing.T) {
	const hashKey = "sig-key"
	srv := newTestServer(t, hashKey)

	form := url.Values{"email": {"kim@example.com"}, "password": {"secret"}}
	status, body := post(t, srv, "user_create", form)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, app.MsgInvalidSignature, body["message"])

	form.Set(utils.SignatureParam, utils.NewHasher(hashKey).SignValues(form))
	status, body = post(t, srv, "user_create", form)
	assert.Equal(t, http.StatusOK, status, body)
}

func TestHandler_VersionAndMethods(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := srv.Client().Get(srv.URL + "/api/version")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.2.3", string(raw))
	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))

	resp, err = srv.Client().Get(srv.URL + "/api/user_signin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_TraceIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/version", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-123")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-123", resp.Header.Get(traceIDHeader))
}

func TestHandler_Gzip(t *testing.T) {
	srv := newTestServer(t, "")

	var compressed strings.Builder
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte("email=kim%40example.com&password=secret"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/user_create", strings.NewReader(compressed.String()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	var body envelope
	require.NoError(t, json.NewDecoder(zr).Decode(&body))
	assert.Equal(t, "success", body["status"])
}
