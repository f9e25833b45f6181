package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

const tokenArg = "token"

// auth validates the token of a procedure call and stores the caller's id
// in the request context with [utils.WithUserID].
//
// The token is read from the "token" form argument, which is how the
// client sends it, and falls back to a bearer "Authorization" header.
// Rejected calls get 401 with an error envelope.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Send()
			writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Str("func", "*Handler.auth").Msg("token expired")
				writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpired)
			default:
				log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
				writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			}
			return
		}

		ctx = utils.WithUserID(ctx, token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if token := r.PostFormValue(tokenArg); token != "" {
		return token, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}
	return getTokenFromAuthHeader(authHeader)
}

// getTokenFromAuthHeader extracts the token of "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
