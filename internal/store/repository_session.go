package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	getSession = `SELECT token, user_id, email, updated_at FROM session WHERE id = 1;`

	saveSession = `
		INSERT INTO session (id, token, user_id, email, updated_at) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token      = excluded.token,
			user_id    = excluded.user_id,
			email      = excluded.email,
			updated_at = excluded.updated_at;`

	deleteSession = `DELETE FROM session WHERE id = 1;`
)

// sessionRepository keeps the single sign-in row of the client.
type sessionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] over db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: logger}
}

func (r *sessionRepository) GetSession(ctx context.Context) (models.Session, error) {
	log := logger.FromContext(ctx)

	var (
		session   models.Session
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, getSession).Scan(&session.Token, &session.UserID, &session.Email, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.GetSession").Msg("failed to read session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	session.UpdatedAt = time.UnixMilli(updatedAt)

	return session, nil
}

func (r *sessionRepository) SaveSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, saveSession, session.Token, session.UserID, session.Email, session.UpdatedAt.UnixMilli())
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.SaveSession").Int64("user_id", session.UserID).Msg("failed to save session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSession signs the device out. It is a no-op when nobody is signed in.
func (r *sessionRepository) DeleteSession(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSession); err != nil {
		log.Err(err).Str("func", "sessionRepository.DeleteSession").Msg("failed to delete session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
