package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

const updatesTable = "updates"

var updateColumns = []string{
	"id", "remote_id", "tag_id", "task_id", "message", "action", "action_code",
	"target_name", "picture", "created_at", "user_id", "user",
}

// updateRepository is the SQLite-backed implementation of [UpdateRepository].
type updateRepository struct {
	db      *DB
	changes *Feed[UpdateChange]
	logger  *logger.Logger
}

// NewUpdateRepository constructs an [UpdateRepository] over db.
func NewUpdateRepository(db *DB, logger *logger.Logger) UpdateRepository {
	return &updateRepository{
		db:      db,
		changes: NewFeed[UpdateChange](),
		logger:  logger,
	}
}

func (r *updateRepository) Changes() *Feed[UpdateChange] {
	return r.changes
}

func (r *updateRepository) FindUpdate(ctx context.Context, id int64) (models.Update, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlBuilder.Select(updateColumns...).From(updatesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Update{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	update, err := scanUpdate(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Update{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "updateRepository.FindUpdate").Int64("id", id).Msg("failed to scan update row")
		return models.Update{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return update, nil
}

// ListUpdates returns updates newest first.
func (r *updateRepository) ListUpdates(ctx context.Context, filter UpdateFilter) ([]models.Update, error) {
	log := logger.FromContext(ctx)

	builder := sqlBuilder.Select(updateColumns...).From(updatesTable).OrderBy("created_at DESC", "id DESC")
	if filter.TagGroupID != 0 {
		builder = builder.Where(sq.Eq{"tag_id": filter.TagGroupID})
	}
	if filter.TaskID != 0 {
		builder = builder.Where(sq.Eq{"task_id": filter.TaskID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "updateRepository.ListUpdates").Msg("failed to execute query for listing updates")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var updates []models.Update
	for rows.Next() {
		update, scanErr := scanUpdate(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "updateRepository.ListUpdates").Msg("failed to scan update row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		updates = append(updates, update)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return updates, nil
}

// SaveUpdate implements [UpdateRepository]. Inserts when update.ID is zero
// and otherwise writes the columns named by changes.
func (r *updateRepository) SaveUpdate(ctx context.Context, update *models.Update, changes models.ChangeSet) error {
	log := logger.FromContext(ctx)

	inserted := update.ID == 0
	if !inserted && changes.IsEmpty() {
		return nil
	}

	if inserted {
		query, args, err := sqlBuilder.Insert(updatesTable).
			Columns(updateColumns[1:]...).
			Values(update.RemoteID, update.TagID, update.TaskID, update.Message, update.Action, update.ActionCode,
				update.TargetName, update.Picture, update.CreatedAt, update.UserID, update.User).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "updateRepository.SaveUpdate").Msg("failed to insert update")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if update.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	} else {
		set := make(map[string]any)
		for _, f := range changes.Fields() {
			if v, ok := updateFieldValue(*update, f); ok {
				set[string(f)] = v
			}
		}
		if len(set) > 0 {
			affected, err := execBuilt(ctx, r.db, "updateRepository.SaveUpdate",
				sqlBuilder.Update(updatesTable).SetMap(set).Where(sq.Eq{"id": update.ID}))
			if err != nil {
				return fmt.Errorf("failed to save update (id=%d): %w", update.ID, err)
			}
			if affected == 0 {
				return ErrNotFound
			}
		}
	}

	log.Debug().Str("func", "updateRepository.SaveUpdate").Int64("id", update.ID).Bool("inserted", inserted).
		Strs("fields", fieldNames(changes)).Msg("update saved")

	r.changes.Publish(UpdateChange{Update: *update, Changes: changes})

	return nil
}

func (r *updateRepository) SetUpdateRemoteID(ctx context.Context, id, remoteID int64) error {
	affected, err := execBuilt(ctx, r.db, "updateRepository.SetUpdateRemoteID",
		sqlBuilder.Update(updatesTable).Set("remote_id", remoteID).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to set update remote id (id=%d): %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	update, err := r.FindUpdate(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Publish(UpdateChange{Update: update, Changes: models.NewChangeSet(models.FieldRemoteID)})

	return nil
}

// DeleteUpdate removes the update. Deleting a missing update is not an error.
func (r *updateRepository) DeleteUpdate(ctx context.Context, id int64) error {
	if _, err := execBuilt(ctx, r.db, "updateRepository.DeleteUpdate",
		sqlBuilder.Delete(updatesTable).Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("failed to delete update (id=%d): %w", id, err)
	}
	return nil
}

func (r *updateRepository) FindUpdateIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error) {
	if len(remoteIDs) == 0 {
		return nil, nil
	}

	builder := sqlBuilder.Select("remote_id", "id").From(updatesTable).
		Where(sq.Eq{"remote_id": remoteIDs}).
		Where(sq.NotEq{"remote_id": 0}).
		OrderBy("remote_id", "id")

	return queryIDPairs(ctx, r.db, "updateRepository.FindUpdateIDsByRemoteIDs", builder)
}

func (r *updateRepository) FindUpdateIDsByTagGroup(ctx context.Context, tagGroupID int64) ([]models.IDPair, error) {
	builder := sqlBuilder.Select("remote_id", "id").From(updatesTable).
		Where(sq.Eq{"tag_id": tagGroupID}).
		Where(sq.NotEq{"remote_id": 0}).
		OrderBy("remote_id", "id")

	return queryIDPairs(ctx, r.db, "updateRepository.FindUpdateIDsByTagGroup", builder)
}

func updateFieldValue(u models.Update, f models.Field) (any, bool) {
	switch f {
	case models.FieldRemoteID:
		return u.RemoteID, true
	case models.FieldTagID:
		return u.TagID, true
	case models.FieldTaskID:
		return u.TaskID, true
	case models.FieldMessage:
		return u.Message, true
	case models.FieldAction:
		return u.Action, true
	case models.FieldActionCode:
		return u.ActionCode, true
	case models.FieldTargetName:
		return u.TargetName, true
	case models.FieldPicture:
		return u.Picture, true
	case models.FieldCreatedAt:
		return u.CreatedAt, true
	case models.FieldUserID:
		return u.UserID, true
	case models.FieldUser:
		return u.User, true
	default:
		return nil, false
	}
}

func scanUpdate(row scanner) (models.Update, error) {
	var u models.Update
	err := row.Scan(
		&u.ID, &u.RemoteID, &u.TagID, &u.TaskID, &u.Message, &u.Action, &u.ActionCode,
		&u.TargetName, &u.Picture, &u.CreatedAt, &u.UserID, &u.User,
	)
	return u, err
}
