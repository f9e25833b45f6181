package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-task-sync/models"
)

const (
	apiPrefix         = "/api/"
	procedureURLParam = "procedure"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get(apiPrefix+"version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.withSignature)

		// procedures without a token
		r.Post(apiPrefix+models.ProcedureSignIn, h.signIn)
		r.Post(apiPrefix+models.ProcedureSignUp, h.signUp)

		r.With(h.auth).Post(apiPrefix+"{"+procedureURLParam+"}", h.call)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
