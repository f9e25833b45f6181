package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

// call runs the procedure named in the URL for the authenticated caller.
func (h *Handler) call(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	procedure := chi.URLParam(r, procedureURLParam)
	log := logger.FromRequest(r).WithFields("procedure", procedure)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.call").Msg("no user ID was given")
		writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
		return
	}

	result, err := h.services.ProcedureService.Call(ctx, userID, procedure, procedureArgs(r.PostForm))
	if err != nil {
		log.Err(err).Str("func", "*Handler.call").Int64("user_id", userID).Msg("procedure failed")
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, result)
}

// procedureArgs drops the transport arguments from form values.
func procedureArgs(form url.Values) url.Values {
	args := make(url.Values, len(form))
	for k, v := range form {
		if k == tokenArg || k == utils.SignatureParam {
			continue
		}
		args[k] = v
	}
	return args
}
