package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
)

// withSignature parses the form arguments and, when a hash key is
// configured, rejects calls whose "sig" argument does not match them.
func (h *Handler) withSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		if err := r.ParseForm(); err != nil {
			log.Err(err).Str("func", "*Handler.withSignature").Msg("failed to parse form")
			writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
			return
		}

		if h.hasher == nil {
			next.ServeHTTP(w, r)
			return
		}

		if !h.hasher.VerifyValues(r.PostForm) {
			log.Error().Str("func", "*Handler.withSignature").Str("path", r.URL.Path).Msg("signatures are not equal")
			writeError(w, http.StatusBadRequest, app.MsgInvalidSignature)
			return
		}

		log.Debug().Str("func", "*Handler.withSignature").Msg("signatures are equal")
		next.ServeHTTP(w, r)
	})
}
