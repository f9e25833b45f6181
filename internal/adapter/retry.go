package adapter

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-task-sync/models"
	"github.com/go-resty/resty/v2"
)

type retryCtxKey struct{}

// idParam is the argument that turns a save procedure into an update.
const idParam = "id"

// retryable reports whether repeating the call cannot create a second
// record on the server. Saves are safe only as updates of a known id.
func retryable(procedure string, params models.Params) bool {
	switch procedure {
	case models.ProcedureCommentAdd, models.ProcedureSignUp:
		return false
	case models.ProcedureTaskSave, models.ProcedureTagSave:
		return params.Has(idParam)
	default:
		return true
	}
}

func withRetry(ctx context.Context, allowed bool) context.Context {
	return context.WithValue(ctx, retryCtxKey{}, allowed)
}

// shouldRetry is the resty retry condition. Requests not marked retryable
// are sent once.
func shouldRetry(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	if allowed, _ := resp.Request.Context().Value(retryCtxKey{}).(bool); !allowed {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}
