package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

type errorResponse struct {
	status  int
	message string
}

// errorResponses is ordered: the first match wins.
var errorResponses = []struct {
	target   error
	response errorResponse
}{
	{service.ErrInvalidDataProvided, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrMissingParameter, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrWrongPassword, errorResponse{http.StatusUnauthorized, app.MsgInvalidEmailPassword}},
	{service.ErrTokenIsExpired, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpired}},
	{service.ErrTokenExpiredOrInvalid, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrAccessDenied, errorResponse{http.StatusForbidden, app.MsgAccessDenied}},
	{service.ErrRemoteNotFound, errorResponse{http.StatusNotFound, app.MsgDataNotFound}},
	{store.ErrNotFound, errorResponse{http.StatusNotFound, app.MsgDataNotFound}},
	{service.ErrUnknownProcedure, errorResponse{http.StatusNotFound, app.MsgUnknownProcedure}},
	{service.ErrEmailAlreadyExists, errorResponse{http.StatusConflict, app.MsgEmailAlreadyExists}},
	{store.ErrEmailAlreadyExists, errorResponse{http.StatusConflict, app.MsgEmailAlreadyExists}},
	{service.ErrTokenCreationFailed, errorResponse{http.StatusBadGateway, app.MsgSignInFailed}},
}

func responseFromError(err error) errorResponse {
	for _, e := range errorResponses {
		if errors.Is(err, e.target) {
			return e.response
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

func writeServiceError(w http.ResponseWriter, err error) {
	resp := responseFromError(err)
	writeError(w, resp.status, resp.message)
}
