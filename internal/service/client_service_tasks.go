package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

// commentAction is the action recorded for locally written comments.
const commentAction = "commented"

type clientTaskService struct {
	tasks     store.TaskRepository
	updates   store.UpdateRepository
	tagGroups store.TagGroupRepository
	validator validators.Validator
	now       func() time.Time
	logger    *logger.Logger
}

func NewClientTaskService(storages *store.ClientStorages, validator validators.Validator, logger *logger.Logger) ClientTaskService {
	return &clientTaskService{
		tasks:     storages.Tasks,
		updates:   storages.Updates,
		tagGroups: storages.TagGroups,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientTaskService) AddTask(ctx context.Context, input models.TaskInput) (models.Task, error) {
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	task := models.Task{
		Title:      strings.TrimSpace(*input.Title),
		Importance: models.ImportanceNone,
		CreatedAt:  s.now().UnixMilli(),
	}
	changes := models.NewChangeSet(models.FieldTitle, models.FieldCreatedAt, models.FieldImportance)

	if err := s.applyTaskInput(ctx, &task, input, &changes); err != nil {
		return models.Task{}, err
	}

	if err := s.tasks.SaveTask(ctx, &task, changes); err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}

	s.logger.Debug().Str("func", "clientTaskService.AddTask").Int64("task", task.ID).Msg("task added")
	return task, nil
}

func (s *clientTaskService) EditTask(ctx context.Context, localID int64, input models.TaskInput) (models.Task, error) {
	err := s.validator.Validate(ctx, input, validators.FieldAnyChange, validators.FieldImportance, validators.FieldTags)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	task, err := s.findTask(ctx, localID)
	if err != nil {
		return models.Task{}, err
	}

	var changes models.ChangeSet
	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
		changes = changes.With(models.FieldTitle)
	}
	if err = s.applyTaskInput(ctx, &task, input, &changes); err != nil {
		return models.Task{}, err
	}

	if err = s.tasks.SaveTask(ctx, &task, changes); err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

// applyTaskInput copies the optional fields of input onto task and records
// them in changes. Tag names are resolved against known tag groups.
func (s *clientTaskService) applyTaskInput(ctx context.Context, task *models.Task, input models.TaskInput, changes *models.ChangeSet) error {
	if input.Notes != nil {
		task.Notes = *input.Notes
		*changes = changes.With(models.FieldNotes)
	}
	if input.Importance != nil {
		task.Importance = *input.Importance
		*changes = changes.With(models.FieldImportance)
	}
	if input.Due != nil {
		task.DueDate = models.NewDueDate(*input.Due, input.DueHasTime)
		*changes = changes.With(models.FieldDueDate)
	}
	if input.Recurrence != nil {
		task.Recurrence = *input.Recurrence
		*changes = changes.With(models.FieldRecurrence)
	}

	if input.Tags != nil {
		tags, err := s.resolveTags(ctx, input.Tags)
		if err != nil {
			return err
		}
		task.Tags = tags
		changes.TagsChanged = true
	}

	return nil
}

func (s *clientTaskService) resolveTags(ctx context.Context, names []string) ([]models.TaskTag, error) {
	tags := make([]models.TaskTag, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := seen[strings.ToLower(name)]; ok {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}

		tag := models.TaskTag{Name: name}
		group, err := s.tagGroups.FindTagGroupByName(ctx, name)
		switch {
		case err == nil:
			tag.Name = group.Name
			tag.RemoteID = group.RemoteID
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (s *clientTaskService) CompleteTask(ctx context.Context, localID int64) (models.Task, error) {
	task, err := s.findTask(ctx, localID)
	if err != nil {
		return models.Task{}, err
	}
	if task.IsCompleted() {
		return task, nil
	}

	task.CompletedAt = s.now().UnixMilli()
	if err = s.tasks.SaveTask(ctx, &task, models.NewChangeSet(models.FieldCompletedAt)); err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

func (s *clientTaskService) ListTasks(ctx context.Context, tag string, includeCompleted bool) ([]models.Task, error) {
	return s.tasks.ListTasks(ctx, store.TaskFilter{Tag: tag, IncludeCompleted: includeCompleted})
}

func (s *clientTaskService) findTask(ctx context.Context, localID int64) (models.Task, error) {
	task, err := s.tasks.FindTask(ctx, localID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("load task %d: %w", localID, err)
	}
	return task, nil
}

func (s *clientTaskService) AddComment(ctx context.Context, input models.CommentInput) (models.Update, error) {
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Update{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	update := models.Update{
		Message:   input.Message,
		Action:    commentAction,
		CreatedAt: s.now().UnixMilli(),
	}
	changes := models.NewChangeSet(models.FieldMessage, models.FieldAction, models.FieldCreatedAt)

	if input.TaskID > 0 {
		task, err := s.findTask(ctx, input.TaskID)
		if err != nil {
			return models.Update{}, err
		}
		update.TaskID = task.ID
		update.TargetName = task.Title
		changes = changes.With(models.FieldTaskID, models.FieldTargetName)
	} else {
		group, err := s.tagGroups.FindTagGroup(ctx, input.TagGroupID)
		if errors.Is(err, store.ErrNotFound) {
			return models.Update{}, ErrTagGroupNotFound
		}
		if err != nil {
			return models.Update{}, fmt.Errorf("load tag group %d: %w", input.TagGroupID, err)
		}
		update.TagID = group.ID
		update.TargetName = group.Name
		changes = changes.With(models.FieldTagID, models.FieldTargetName)
	}

	if err := s.updates.SaveUpdate(ctx, &update, changes); err != nil {
		return models.Update{}, fmt.Errorf("save comment: %w", err)
	}
	return update, nil
}

func (s *clientTaskService) ListComments(ctx context.Context, tagGroupID, taskID int64, limit uint64) ([]models.Update, error) {
	return s.updates.ListUpdates(ctx, store.UpdateFilter{TagGroupID: tagGroupID, TaskID: taskID, Limit: limit})
}

func (s *clientTaskService) AddTagGroup(ctx context.Context, input models.TagGroupInput) (models.TagGroup, error) {
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.TagGroup{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	name := strings.TrimSpace(input.Name)
	_, err := s.tagGroups.FindTagGroupByName(ctx, name)
	if err == nil {
		return models.TagGroup{}, ErrTagGroupExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.TagGroup{}, fmt.Errorf("look up tag %q: %w", name, err)
	}

	group := models.TagGroup{
		Name:        name,
		Members:     input.Members,
		MemberCount: len(input.Members),
	}
	changes := models.NewChangeSet(models.FieldName, models.FieldMembers, models.FieldMemberCount)
	changes.NotifyOnComplete = input.Notify

	if err = s.tagGroups.SaveTagGroup(ctx, &group, changes); err != nil {
		return models.TagGroup{}, fmt.Errorf("save tag: %w", err)
	}
	return group, nil
}

func (s *clientTaskService) ListTagGroups(ctx context.Context) ([]models.TagGroup, error) {
	return s.tagGroups.ListTagGroups(ctx)
}

func (s *clientTaskService) FindTagGroup(ctx context.Context, name string) (models.TagGroup, error) {
	group, err := s.tagGroups.FindTagGroupByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return models.TagGroup{}, ErrTagGroupNotFound
	}
	return group, err
}
