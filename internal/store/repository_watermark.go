package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

const (
	getWatermark = `SELECT value FROM sync_state WHERE key = ?;`

	setWatermark = `
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)

// watermarkRepository is the SQLite-backed implementation of
// [WatermarkRepository].
type watermarkRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewWatermarkRepository constructs a [WatermarkRepository] over db.
func NewWatermarkRepository(db *DB, logger *logger.Logger) WatermarkRepository {
	return &watermarkRepository{db: db, logger: logger}
}

// GetInt64 returns the value stored under key, or def if the key was never
// written.
func (r *watermarkRepository) GetInt64(ctx context.Context, key string, def int64) (int64, error) {
	log := logger.FromContext(ctx)

	var value int64
	err := r.db.QueryRowContext(ctx, getWatermark, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		log.Err(err).Str("func", "watermarkRepository.GetInt64").Str("key", key).Msg("failed to read watermark")
		return def, fmt.Errorf("failed to read watermark %q: %w", key, err)
	}

	return value, nil
}

// SetInt64 upserts key.
func (r *watermarkRepository) SetInt64(ctx context.Context, key string, value int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, setWatermark, key, value); err != nil {
		log.Err(err).Str("func", "watermarkRepository.SetInt64").Str("key", key).Msg("failed to write watermark")
		return fmt.Errorf("failed to write watermark %q: %w", key, err)
	}

	return nil
}
