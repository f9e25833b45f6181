package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	emailArg    = "email"
	passwordArg = "password"
	nameArg     = "name"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user := models.User{
		Email: strings.TrimSpace(r.PostFormValue(emailArg)),
		Name:  strings.TrimSpace(r.PostFormValue(nameArg)),
	}

	registered, err := h.services.AuthService.RegisterUser(ctx, user, r.PostFormValue(passwordArg))
	if err != nil {
		log.Err(err).Str("func", "*Handler.signUp").Str("email", user.Email).Msg("user registration failed")
		writeServiceError(w, err)
		return
	}

	h.writeSignIn(w, r, registered)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	email := strings.TrimSpace(r.PostFormValue(emailArg))
	found, err := h.services.AuthService.Login(ctx, email, r.PostFormValue(passwordArg))
	if err != nil {
		log.Err(err).Str("func", "*Handler.signIn").Str("email", email).Msg("user sign in failed")
		writeServiceError(w, err)
		return
	}

	log.Debug().Str("func", "*Handler.signIn").Int64("id", found.UserID).Msg("user successfully signed in")
	h.writeSignIn(w, r, found)
}

func (h *Handler) writeSignIn(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.writeSignIn").Msg("creation of token failed")
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, service.Result{
		"token": token.SignedString,
		"id":    user.UserID,
		"name":  user.Name,
		"email": user.Email,
	})
}
