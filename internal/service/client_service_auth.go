package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

type clientAuthService struct {
	invoker   adapter.Invoker
	sessions  store.SessionRepository
	validator validators.Validator
	now       func() time.Time
	logger    *logger.Logger
}

func NewClientAuthService(invoker adapter.Invoker, sessions store.SessionRepository, validator validators.Validator, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		invoker:   invoker,
		sessions:  sessions,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// Login signs in with user_signin and persists the session. The user id
// comes from the response and falls back to the token subject.
func (a *clientAuthService) Login(ctx context.Context, email, password string) (models.Session, error) {
	creds := models.Credentials{Email: email, Password: password}
	if err := a.validator.Validate(ctx, creds); err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	params := models.Params{}.
		Add(paramEmail, email).
		Add(paramPassword, password)

	body, err := a.invoker.Invoke(ctx, models.ProcedureSignIn, params)
	if err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.Login").Str("email", email).Msg("user_signin failed")
		return models.Session{}, mapAdapterError(err)
	}

	var resp models.SignInResponse
	if err = json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return models.Session{}, fmt.Errorf("%w: sign in response", ErrMalformedRemoteItem)
	}

	userID := resp.ID
	if userID == 0 {
		if userID, err = utils.ParseUserIDFromJWT(resp.Token); err != nil {
			return models.Session{}, fmt.Errorf("%w: token subject: %w", ErrMalformedRemoteItem, err)
		}
	}

	session := models.Session{
		Token:     resp.Token,
		UserID:    userID,
		Email:     email,
		UpdatedAt: a.now(),
	}
	if err = a.sessions.SaveSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	a.logger.Info().Str("func", "clientAuthService.Login").Int64("user_id", userID).Msg("signed in")
	return session, nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	if err := a.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (a *clientAuthService) Session(ctx context.Context) (models.Session, error) {
	session, err := a.sessions.GetSession(ctx)
	if errors.Is(err, store.ErrNoSession) {
		return models.Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// sessionAuth answers AuthProvider questions from the stored session.
type sessionAuth struct {
	sessions store.SessionRepository
	logger   *logger.Logger
}

// NewSessionAuthProvider returns an AuthProvider backed by the local
// session table. A read failure counts as signed out.
func NewSessionAuthProvider(sessions store.SessionRepository, logger *logger.Logger) AuthProvider {
	return &sessionAuth{sessions: sessions, logger: logger}
}

func (s *sessionAuth) session(ctx context.Context) models.Session {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoSession) {
			s.logger.Err(err).Str("func", "sessionAuth.session").Msg("failed to read session")
		}
		return models.Session{}
	}
	return session
}

func (s *sessionAuth) IsAuthenticated(ctx context.Context) bool {
	return s.session(ctx).IsValid()
}

func (s *sessionAuth) CurrentToken(ctx context.Context) string {
	return s.session(ctx).Token
}

func (s *sessionAuth) CurrentUserID(ctx context.Context) int64 {
	session := s.session(ctx)
	if session.UserID != 0 || session.Token == "" {
		return session.UserID
	}

	userID, err := utils.ParseUserIDFromJWT(session.Token)
	if err != nil {
		return 0
	}
	return userID
}
