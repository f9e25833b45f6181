// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

const (
	tasksTable    = "tasks"
	taskTagsTable = "task_tags"
)

var taskColumns = []string{
	"id", "remote_id", "title", "due_date", "notes", "created_at", "completed_at",
	"deleted_at", "importance", "recurrence", "user_id", "user", "comment_count",
}

// taskRepository is the SQLite-backed implementation of [TaskRepository].
type taskRepository struct {
	db      *DB
	changes *Feed[TaskChange]
	logger  *logger.Logger
}

// NewTaskRepository constructs a [TaskRepository] over db.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	return &taskRepository{
		db:      db,
		changes: NewFeed[TaskChange](),
		logger:  logger,
	}
}

func (r *taskRepository) Changes() *Feed[TaskChange] {
	return r.changes
}

func (r *taskRepository) FindTask(ctx context.Context, id int64) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlBuilder.Select(taskColumns...).From(tasksTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "taskRepository.FindTask").Int64("id", id).Msg("failed to scan task row")
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	tags, err := r.loadTags(ctx, r.db, id)
	if err != nil {
		return models.Task{}, err
	}
	task.Tags = tags[id]

	return task, nil
}

func (r *taskRepository) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	log := logger.FromContext(ctx)

	builder := sqlBuilder.Select(prefixed("t", taskColumns)...).From(tasksTable + " t").OrderBy("t.id")
	if filter.Tag != "" {
		builder = builder.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.name = ?)", filter.Tag))
	}
	if !filter.IncludeCompleted {
		builder = builder.Where(sq.Eq{"t.completed_at": 0})
	}
	if !filter.IncludeDeleted {
		builder = builder.Where(sq.Eq{"t.deleted_at": 0})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.ListTasks").Msg("failed to execute query for listing tasks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var (
		tasks []models.Task
		ids   []int64
	)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "taskRepository.ListTasks").Msg("failed to scan task row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "taskRepository.ListTasks").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	rows.Close()

	tags, err := r.loadTags(ctx, r.db, ids...)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Tags = tags[tasks[i].ID]
	}

	return tasks, nil
}

// SaveTask implements [TaskRepository].
func (r *taskRepository) SaveTask(ctx context.Context, task *models.Task, changes models.ChangeSet) error {
	log := logger.FromContext(ctx)

	inserted := task.ID == 0
	if !inserted && changes.IsEmpty() {
		return nil
	}

	err := r.db.withTx(ctx, "taskRepository.SaveTask", func(tx *sql.Tx) error {
		if inserted {
			id, err := insertTask(ctx, tx, *task)
			if err != nil {
				return err
			}
			task.ID = id
		} else if err := updateTaskColumns(ctx, tx, *task, changes); err != nil {
			return err
		}

		if changes.TagsChanged || (inserted && len(task.Tags) > 0) {
			return replaceTaskTags(ctx, tx, task.ID, task.Tags)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "taskRepository.SaveTask").Int64("id", task.ID).Msg("failed to save task")
		return fmt.Errorf("failed to save task (id=%d): %w", task.ID, err)
	}

	log.Debug().Str("func", "taskRepository.SaveTask").Int64("id", task.ID).Bool("inserted", inserted).
		Strs("fields", fieldNames(changes)).Bool("tags_changed", changes.TagsChanged).Msg("task saved")

	snapshot := *task
	snapshot.Tags = append([]models.TaskTag(nil), task.Tags...)
	r.changes.Publish(TaskChange{Task: snapshot, Changes: changes})

	return nil
}

func (r *taskRepository) SetTaskRemoteID(ctx context.Context, id, remoteID int64) error {
	builder := sqlBuilder.Update(tasksTable).Set("remote_id", remoteID).Where(sq.Eq{"id": id})
	affected, err := execBuilt(ctx, r.db, "taskRepository.SetTaskRemoteID", builder)
	if err != nil {
		return fmt.Errorf("failed to set task remote id (id=%d): %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	task, err := r.FindTask(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Publish(TaskChange{Task: task, Changes: models.NewChangeSet(models.FieldRemoteID)})

	return nil
}

// DeleteTask removes the task and its tag associations. Deleting a missing
// task is not an error.
func (r *taskRepository) DeleteTask(ctx context.Context, id int64) error {
	err := r.db.withTx(ctx, "taskRepository.DeleteTask", func(tx *sql.Tx) error {
		if _, err := execBuilt(ctx, tx, "taskRepository.DeleteTask",
			sqlBuilder.Delete(taskTagsTable).Where(sq.Eq{"task_id": id})); err != nil {
			return err
		}
		_, err := execBuilt(ctx, tx, "taskRepository.DeleteTask",
			sqlBuilder.Delete(tasksTable).Where(sq.Eq{"id": id}))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete task (id=%d): %w", id, err)
	}

	return nil
}

func (r *taskRepository) FindTaskIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error) {
	if len(remoteIDs) == 0 {
		return nil, nil
	}

	builder := sqlBuilder.Select("remote_id", "id").From(tasksTable).
		Where(sq.Eq{"remote_id": remoteIDs}).
		Where(sq.NotEq{"remote_id": 0}).
		OrderBy("remote_id", "id")

	return queryIDPairs(ctx, r.db, "taskRepository.FindTaskIDsByRemoteIDs", builder)
}

func (r *taskRepository) FindTaskIDsByTag(ctx context.Context, name string) ([]models.IDPair, error) {
	builder := sqlBuilder.Select("t.remote_id", "t.id").From(tasksTable+" t").
		Join(taskTagsTable+" tt ON tt.task_id = t.id").
		Where(sq.Eq{"tt.name": name}).
		Where(sq.NotEq{"t.remote_id": 0}).
		OrderBy("t.remote_id", "t.id")

	return queryIDPairs(ctx, r.db, "taskRepository.FindTaskIDsByTag", builder)
}

func (r *taskRepository) loadTags(ctx context.Context, q querier, taskIDs ...int64) (map[int64][]models.TaskTag, error) {
	log := logger.FromContext(ctx)

	out := make(map[int64][]models.TaskTag, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlBuilder.Select("task_id", "name", "remote_id").From(taskTagsTable).
		Where(sq.Eq{"task_id": taskIDs}).
		OrderBy("task_id", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.loadTags").Msg("failed to query task tags")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID int64
			tag    models.TaskTag
		)
		if err = rows.Scan(&taskID, &tag.Name, &tag.RemoteID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		out[taskID] = append(out[taskID], tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return out, nil
}

func insertTask(ctx context.Context, tx *sql.Tx, task models.Task) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlBuilder.Insert(tasksTable).
		Columns(taskColumns[1:]...).
		Values(task.RemoteID, task.Title, task.DueDate, task.Notes, task.CreatedAt, task.CompletedAt,
			task.DeletedAt, task.Importance, task.Recurrence, task.UserID, task.User, task.CommentCount).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.insertTask").Msg("failed to insert task")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func updateTaskColumns(ctx context.Context, tx *sql.Tx, task models.Task, changes models.ChangeSet) error {
	set := make(map[string]any)
	for _, f := range changes.Fields() {
		if v, ok := taskFieldValue(task, f); ok {
			set[string(f)] = v
		}
	}
	if len(set) == 0 {
		return nil
	}

	affected, err := execBuilt(ctx, tx, "taskRepository.updateTaskColumns",
		sqlBuilder.Update(tasksTable).SetMap(set).Where(sq.Eq{"id": task.ID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func replaceTaskTags(ctx context.Context, tx *sql.Tx, taskID int64, tags []models.TaskTag) error {
	if _, err := execBuilt(ctx, tx, "taskRepository.replaceTaskTags",
		sqlBuilder.Delete(taskTagsTable).Where(sq.Eq{"task_id": taskID})); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	insert := sqlBuilder.Insert(taskTagsTable).Columns("task_id", "name", "remote_id").
		Suffix("ON CONFLICT (task_id, name) DO UPDATE SET remote_id = excluded.remote_id")
	for _, tag := range tags {
		insert = insert.Values(taskID, tag.Name, tag.RemoteID)
	}

	_, err := execBuilt(ctx, tx, "taskRepository.replaceTaskTags", insert)
	return err
}

// taskFieldValue returns the column value of f, or false for fields that
// are not task columns.
func taskFieldValue(task models.Task, f models.Field) (any, bool) {
	switch f {
	case models.FieldRemoteID:
		return task.RemoteID, true
	case models.FieldTitle:
		return task.Title, true
	case models.FieldDueDate:
		return task.DueDate, true
	case models.FieldNotes:
		return task.Notes, true
	case models.FieldCreatedAt:
		return task.CreatedAt, true
	case models.FieldCompletedAt:
		return task.CompletedAt, true
	case models.FieldDeletedAt:
		return task.DeletedAt, true
	case models.FieldImportance:
		return task.Importance, true
	case models.FieldRecurrence:
		return task.Recurrence, true
	case models.FieldUserID:
		return task.UserID, true
	case models.FieldUser:
		return task.User, true
	case models.FieldCommentCount:
		return task.CommentCount, true
	default:
		return nil, false
	}
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.RemoteID, &t.Title, &t.DueDate, &t.Notes, &t.CreatedAt, &t.CompletedAt,
		&t.DeletedAt, &t.Importance, &t.Recurrence, &t.UserID, &t.User, &t.CommentCount,
	)
	return t, err
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func fieldNames(changes models.ChangeSet) []string {
	fields := changes.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
