package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

// PushTask sends the changed fields of a task to the server. The first
// successful push creates the remote task and records its id locally.
func (s *clientSyncService) PushTask(ctx context.Context, task models.Task, changes models.ChangeSet) error {
	log := s.log(ctx).WithFields("stage", "task-save")

	token, ok := s.gate.Authorized(ctx)
	if !ok {
		return nil
	}

	unlock := s.locks.Lock(entityKey(models.KindTask, task.ID))
	defer unlock()

	current, err := s.tasks.FindTask(ctx, task.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Str("func", "clientSyncService.PushTask").Int64("task", task.ID).Msg("task is gone, nothing to push")
		return nil
	}
	if err != nil {
		return fmt.Errorf("task-save: load task %d: %w", task.ID, err)
	}

	newlyCreated := current.RemoteID == 0
	if changes.TagsChanged || newlyCreated {
		task.Tags = current.Tags
	}

	params := taskParams(task, changes, newlyCreated)
	if newlyCreated && !params.Has(paramTitle) {
		log.Debug().Str("func", "clientSyncService.PushTask").Int64("task", task.ID).Msg("new task without title, not creating")
		return nil
	}
	if len(params) == 0 {
		return nil
	}

	if !newlyCreated {
		params = params.Add(paramID, current.RemoteID)
	}
	params = params.Add(paramToken, token)

	remoteID, err := s.save(ctx, models.ProcedureTaskSave, params, newlyCreated)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.PushTask").Int64("task", task.ID).Msg("task_save failed")
		return fmt.Errorf("task-save: %w", err)
	}

	if newlyCreated {
		if err = s.tasks.SetTaskRemoteID(ctx, task.ID, remoteID); err != nil {
			return fmt.Errorf("task-save: write back remote id: %w", err)
		}
		log.Info().Str("func", "clientSyncService.PushTask").Int64("task", task.ID).Int64("remote_id", remoteID).Msg("task created on server")
	}

	return nil
}

// PushTaskByID pushes every server-known field of a stored task together
// with its tags.
func (s *clientSyncService) PushTaskByID(ctx context.Context, localID int64) error {
	task, err := s.tasks.FindTask(ctx, localID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("load task %d: %w", localID, err)
	}

	changes := models.NewChangeSet(taskPushFields...)
	changes.TagsChanged = true

	return s.PushTask(ctx, task, changes)
}

// PushUpdate posts a locally written comment. Comments are sent once; an
// update that already has a remote id is left alone.
func (s *clientSyncService) PushUpdate(ctx context.Context, update models.Update, changes models.ChangeSet) error {
	log := s.log(ctx).WithFields("stage", "comment-add")

	token, ok := s.gate.Authorized(ctx)
	if !ok {
		return nil
	}

	params := updateParams(update, changes)
	if params == nil {
		return nil
	}

	unlock := s.locks.Lock(entityKey(models.KindUpdate, update.ID))
	defer unlock()

	current, err := s.updates.FindUpdate(ctx, update.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("comment-add: load update %d: %w", update.ID, err)
	}
	if current.RemoteID > 0 {
		return nil
	}

	switch {
	case current.TagID > 0:
		group, err := s.tagGroups.FindTagGroup(ctx, current.TagID)
		if err != nil || group.RemoteID == 0 {
			log.Debug().Str("func", "clientSyncService.PushUpdate").Int64("tag_group", current.TagID).Msg("tag group not on server yet")
			return nil
		}
		params = params.Add(paramTagID, group.RemoteID)
	case current.TaskID > 0:
		task, err := s.tasks.FindTask(ctx, current.TaskID)
		if err != nil || task.RemoteID == 0 {
			log.Debug().Str("func", "clientSyncService.PushUpdate").Int64("task", current.TaskID).Msg("task not on server yet")
			return nil
		}
		params = params.Add(paramTask, task.RemoteID)
	default:
		log.Warn().Str("func", "clientSyncService.PushUpdate").Int64("update", update.ID).Msg("comment has no target")
		return nil
	}
	params = params.Add(paramToken, token)

	remoteID, err := s.save(ctx, models.ProcedureCommentAdd, params, true)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.PushUpdate").Int64("update", update.ID).Msg("comment_add failed")
		return fmt.Errorf("comment-add: %w", err)
	}

	if err = s.updates.SetUpdateRemoteID(ctx, update.ID, remoteID); err != nil {
		return fmt.Errorf("comment-add: write back remote id: %w", err)
	}

	return nil
}

// PushTagGroup sends the changed fields of a tag group. When the change set
// asks for it, the user is notified once the call finishes.
func (s *clientSyncService) PushTagGroup(ctx context.Context, group models.TagGroup, changes models.ChangeSet) error {
	log := s.log(ctx).WithFields("stage", "tag-save")

	token, ok := s.gate.Authorized(ctx)
	if !ok {
		return nil
	}

	unlock := s.locks.Lock(entityKey(models.KindTagGroup, group.ID))
	defer unlock()

	current, err := s.tagGroups.FindTagGroup(ctx, group.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tag-save: load tag group %d: %w", group.ID, err)
	}

	newlyCreated := current.RemoteID == 0
	params := tagGroupParams(group, changes)
	if len(params) == 0 {
		return nil
	}
	if newlyCreated && !params.Has(paramName) {
		log.Debug().Str("func", "clientSyncService.PushTagGroup").Int64("tag_group", group.ID).Msg("new tag group without name, not creating")
		return nil
	}

	if !newlyCreated {
		params = params.Add(paramID, current.RemoteID)
	}
	params = params.Add(paramToken, token)

	remoteID, err := s.save(ctx, models.ProcedureTagSave, params, newlyCreated)

	if changes.NotifyOnComplete && s.notifier != nil {
		s.notifier.Notify(ctx, models.Notification{Subject: group.Name, Success: err == nil})
	}

	if err != nil {
		log.Err(err).Str("func", "clientSyncService.PushTagGroup").Int64("tag_group", group.ID).Msg("tag_save failed")
		return fmt.Errorf("tag-save: %w", err)
	}

	if newlyCreated {
		if err = s.tagGroups.SetTagGroupRemoteID(ctx, group.ID, remoteID); err != nil {
			return fmt.Errorf("tag-save: write back remote id: %w", err)
		}
	}

	return nil
}

// save invokes a save procedure. When wantID is set the response must carry
// a non-zero id, which is returned.
func (s *clientSyncService) save(ctx context.Context, procedure string, params models.Params, wantID bool) (int64, error) {
	body, err := s.invoker.Invoke(ctx, procedure, params)
	if err != nil {
		return 0, mapAdapterError(err)
	}
	if !wantID {
		return 0, nil
	}

	return readRemoteID(body)
}
