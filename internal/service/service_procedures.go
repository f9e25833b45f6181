package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

// Action codes recorded for comments.
const (
	actionCodeTagComment  = "tag_comment"
	actionCodeTaskComment = "task_comment"
)

type procedureFunc func(ctx context.Context, caller models.User, args url.Values) (Result, error)

// procedureService implements the token-authenticated procedures of the
// development server over a RemoteRecordRepository.
type procedureService struct {
	users   store.UserRepository
	records store.RemoteRecordRepository
	now     func() time.Time
	logger  *logger.Logger

	procedures map[string]procedureFunc
}

func NewProcedureService(users store.UserRepository, records store.RemoteRecordRepository, logger *logger.Logger) ProcedureService {
	return newProcedureService(users, records, time.Now, logger)
}

func newProcedureService(users store.UserRepository, records store.RemoteRecordRepository, now func() time.Time, logger *logger.Logger) *procedureService {
	s := &procedureService{users: users, records: records, now: now, logger: logger}
	s.procedures = map[string]procedureFunc{
		models.ProcedureTaskSave:     s.taskSave,
		models.ProcedureCommentAdd:   s.commentAdd,
		models.ProcedureTagSave:      s.tagSave,
		models.ProcedureTagShow:      s.tagShow,
		models.ProcedureGoalList:     s.goalList,
		models.ProcedureTaskList:     s.taskList,
		models.ProcedureActivityList: s.activityList,
	}
	return s
}

func (s *procedureService) Call(ctx context.Context, userID int64, procedure string, args url.Values) (Result, error) {
	fn, ok := s.procedures[procedure]
	if !ok {
		return nil, ErrUnknownProcedure
	}

	caller, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTokenExpiredOrInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load caller: %w", err)
	}

	return fn(ctx, caller, args)
}

func (s *procedureService) taskSave(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	id, hasID, err := intArg(args, paramID)
	if err != nil {
		return nil, err
	}

	var task store.ServerTask
	if hasID {
		if task, err = s.visibleTask(ctx, caller.UserID, id); err != nil {
			return nil, err
		}
	} else {
		if strings.TrimSpace(args.Get(paramTitle)) == "" {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidDataProvided, ErrMissingParameter, paramTitle)
		}
		task = store.ServerTask{OwnerID: caller.UserID, CreatedAt: s.now().Unix()}
	}

	if args.Has(paramTitle) {
		task.Title = args.Get(paramTitle)
	}
	if args.Has(paramNotes) {
		task.Notes = args.Get(paramNotes)
	}
	if args.Has(paramRepeat) {
		task.Repeat = args.Get(paramRepeat)
	}
	if args.Has(paramHasDueTime) {
		task.HasDueTime = args.Get(paramHasDueTime) == "1"
	}

	ints := []struct {
		name string
		set  func(int64)
	}{
		{paramDue, func(v int64) { task.Due = v }},
		{paramDeletedAt, func(v int64) { task.DeletedAt = v }},
		{paramCompleted, func(v int64) { task.CompletedAt = v }},
		{paramImportance, func(v int64) { task.Importance = int(v) }},
	}
	for _, field := range ints {
		v, ok, err := intArg(args, field.name)
		if err != nil {
			return nil, err
		}
		if ok {
			field.set(v)
		}
	}

	if assignee, ok, err := intArg(args, paramUserID); err != nil {
		return nil, err
	} else if ok {
		if assignee == 0 {
			assignee = caller.UserID
		}
		if _, err = s.users.FindUserByID(ctx, assignee); err != nil {
			return nil, fmt.Errorf("%w: unknown user %d", ErrInvalidDataProvided, assignee)
		}
		task.OwnerID = assignee
	}

	if args.Has(paramTags) || args.Has(paramTagIDs) || args.Has(paramTagNames) {
		if task.TagIDs, err = s.resolveTags(ctx, caller, args); err != nil {
			return nil, err
		}
	}

	saved, err := s.records.SaveTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return Result{paramID: saved.ID}, nil
}

// resolveTags turns tag_ids[] and tags[] into tag ids. Unknown names
// create a tag owned by the caller.
func (s *procedureService) resolveTags(ctx context.Context, caller models.User, args url.Values) ([]int64, error) {
	ids := make([]int64, 0, len(args[paramTagIDs])+len(args[paramTagNames]))
	seen := make(map[int64]struct{})
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, raw := range args[paramTagIDs] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tag id %q", ErrInvalidDataProvided, raw)
		}
		tag, err := s.visibleTag(ctx, caller.UserID, id)
		if err != nil {
			return nil, err
		}
		add(tag.ID)
	}

	for _, name := range args[paramTagNames] {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.records.FindTagByName(ctx, caller.UserID, name)
		if errors.Is(err, store.ErrNotFound) {
			tag, err = s.records.SaveTag(ctx, store.ServerTag{OwnerID: caller.UserID, Name: name})
		}
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		add(tag.ID)
	}

	return ids, nil
}

func (s *procedureService) commentAdd(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	message := args.Get(paramMessage)
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: %w: %s", ErrInvalidDataProvided, ErrMissingParameter, paramMessage)
	}

	update := store.ServerUpdate{
		UserID:    caller.UserID,
		Action:    commentAction,
		Message:   message,
		CreatedAt: s.now().Unix(),
	}

	tagID, hasTag, err := intArg(args, paramTagID)
	if err != nil {
		return nil, err
	}
	taskID, hasTask, err := intArg(args, paramTask)
	if err != nil {
		return nil, err
	}

	switch {
	case hasTag:
		tag, err := s.visibleTag(ctx, caller.UserID, tagID)
		if err != nil {
			return nil, err
		}
		update.TagID, update.TargetName, update.ActionCode = tag.ID, tag.Name, actionCodeTagComment
	case hasTask:
		task, err := s.visibleTask(ctx, caller.UserID, taskID)
		if err != nil {
			return nil, err
		}
		update.TaskID, update.TargetName, update.ActionCode = task.ID, task.Title, actionCodeTaskComment
	default:
		return nil, fmt.Errorf("%w: %w: %s or %s", ErrInvalidDataProvided, ErrMissingParameter, paramTagID, paramTask)
	}

	saved, err := s.records.AddUpdate(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("add update: %w", err)
	}

	return Result{paramID: saved.ID}, nil
}

func (s *procedureService) tagSave(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	id, hasID, err := intArg(args, paramID)
	if err != nil {
		return nil, err
	}

	var tag store.ServerTag
	if hasID {
		if tag, err = s.visibleTag(ctx, caller.UserID, id); err != nil {
			return nil, err
		}
	} else {
		if strings.TrimSpace(args.Get(paramName)) == "" {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidDataProvided, ErrMissingParameter, paramName)
		}
		tag = store.ServerTag{OwnerID: caller.UserID}
	}

	if args.Has(paramName) {
		tag.Name = strings.TrimSpace(args.Get(paramName))
	}

	if args.Has(paramMembers) || args.Has(paramMemberList) {
		members := make([]models.Member, 0, len(args[paramMemberList]))
		for _, raw := range args[paramMemberList] {
			member, err := s.parseMember(ctx, raw)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		tag.Members = members
	}

	saved, err := s.records.SaveTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("save tag: %w", err)
	}

	return Result{paramID: saved.ID}, nil
}

// parseMember accepts a user id, "name <email>" or a bare email. Emails of
// known users are resolved to their id.
func (s *procedureService) parseMember(ctx context.Context, raw string) (models.Member, error) {
	raw = strings.TrimSpace(raw)

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		user, err := s.users.FindUserByID(ctx, id)
		if err != nil {
			return models.Member{}, fmt.Errorf("%w: unknown member %d", ErrInvalidDataProvided, id)
		}
		return models.Member{ID: user.UserID, Name: user.Name, Email: user.Email}, nil
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return models.Member{}, fmt.Errorf("%w: member %q", ErrInvalidDataProvided, raw)
	}

	member := models.Member{Name: addr.Name, Email: addr.Address}
	if user, err := s.users.FindUserByEmail(ctx, addr.Address); err == nil {
		member.ID = user.UserID
		if member.Name == "" {
			member.Name = user.Name
		}
	}
	return member, nil
}

func (s *procedureService) tagShow(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	id, hasID, err := intArg(args, paramID)
	if err != nil {
		return nil, err
	}

	var tag store.ServerTag
	switch {
	case hasID:
		tag, err = s.visibleTag(ctx, caller.UserID, id)
	case args.Get(paramName) != "":
		tag, err = s.records.FindTagByName(ctx, caller.UserID, args.Get(paramName))
		if errors.Is(err, store.ErrNotFound) {
			err = ErrRemoteNotFound
		}
	default:
		err = fmt.Errorf("%w: %w: %s or %s", ErrInvalidDataProvided, ErrMissingParameter, paramID, paramName)
	}
	if err != nil {
		return nil, err
	}

	users := newUserCache(s.users)
	return toResult(s.remoteTag(ctx, users, tag))
}

func (s *procedureService) goalList(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	filter, err := s.listFilter(ctx, caller, args, false)
	if err != nil {
		return nil, err
	}
	cursor := s.now().Unix()

	tags, err := s.records.ListTags(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	users := newUserCache(s.users)
	list := make([]models.RemoteTagGroup, 0, len(tags))
	for _, tag := range tags {
		list = append(list, s.remoteTag(ctx, users, tag))
	}

	return Result{"list": list, "time": cursor}, nil
}

func (s *procedureService) taskList(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	filter, err := s.listFilter(ctx, caller, args, false)
	if err != nil {
		return nil, err
	}
	cursor := s.now().Unix()

	tasks, err := s.records.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	users := newUserCache(s.users)
	list := make([]models.RemoteTask, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, s.remoteTask(ctx, users, task))
	}

	return Result{"list": list, "time": cursor}, nil
}

func (s *procedureService) activityList(ctx context.Context, caller models.User, args url.Values) (Result, error) {
	filter, err := s.listFilter(ctx, caller, args, true)
	if err != nil {
		return nil, err
	}
	cursor := s.now().Unix()

	updates, err := s.records.ListUpdates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}

	users := newUserCache(s.users)
	list := make([]models.RemoteUpdate, 0, len(updates))
	for _, u := range updates {
		list = append(list, models.RemoteUpdate{
			ID:         u.ID,
			User:       users.json(ctx, u.UserID),
			Action:     u.Action,
			ActionCode: u.ActionCode,
			TargetName: u.TargetName,
			Message:    u.Message,
			Picture:    u.Picture,
			CreatedAt:  u.CreatedAt,
		})
	}

	return Result{"list": list, "time": cursor}, nil
}

// listFilter reads modified_after and an optional tag_id scope, which must
// be visible to the caller.
func (s *procedureService) listFilter(ctx context.Context, caller models.User, args url.Values, tagRequired bool) (store.ServerListFilter, error) {
	filter := store.ServerListFilter{VisibleTo: caller.UserID}

	after, _, err := intArg(args, paramModifiedAfter)
	if err != nil {
		return filter, err
	}
	filter.ModifiedAfter = after

	tagID, hasTag, err := intArg(args, paramTagID)
	if err != nil {
		return filter, err
	}
	if !hasTag {
		if tagRequired {
			return filter, fmt.Errorf("%w: %w: %s", ErrInvalidDataProvided, ErrMissingParameter, paramTagID)
		}
		return filter, nil
	}

	if _, err = s.visibleTag(ctx, caller.UserID, tagID); err != nil {
		return filter, err
	}
	filter.TagID = tagID

	return filter, nil
}

func (s *procedureService) visibleTag(ctx context.Context, userID, id int64) (store.ServerTag, error) {
	tag, err := s.records.FindTag(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.ServerTag{}, ErrRemoteNotFound
	}
	if err != nil {
		return store.ServerTag{}, fmt.Errorf("find tag %d: %w", id, err)
	}
	if !canSeeTag(tag, userID) {
		return store.ServerTag{}, ErrAccessDenied
	}
	return tag, nil
}

func (s *procedureService) visibleTask(ctx context.Context, userID, id int64) (store.ServerTask, error) {
	task, err := s.records.FindTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.ServerTask{}, ErrRemoteNotFound
	}
	if err != nil {
		return store.ServerTask{}, fmt.Errorf("find task %d: %w", id, err)
	}
	if task.OwnerID == userID {
		return task, nil
	}
	for _, tagID := range task.TagIDs {
		if tag, err := s.records.FindTag(ctx, tagID); err == nil && canSeeTag(tag, userID) {
			return task, nil
		}
	}
	return store.ServerTask{}, ErrAccessDenied
}

func canSeeTag(tag store.ServerTag, userID int64) bool {
	if tag.OwnerID == userID {
		return true
	}
	for _, m := range tag.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func (s *procedureService) remoteTask(ctx context.Context, users *userCache, task store.ServerTask) models.RemoteTask {
	out := models.RemoteTask{
		ID:           task.ID,
		User:         users.json(ctx, task.OwnerID),
		CommentCount: task.CommentCount,
		Title:        task.Title,
		Importance:   task.Importance,
		Due:          task.Due,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
		DeletedAt:    task.DeletedAt,
		Repeat:       task.Repeat,
		Notes:        task.Notes,
		Tags:         make([]models.RemoteTag, 0, len(task.TagIDs)),
	}
	if task.HasDueTime {
		out.HasDueTime = 1
	}
	for _, id := range task.TagIDs {
		tag, err := s.records.FindTag(ctx, id)
		if err != nil {
			continue
		}
		out.Tags = append(out.Tags, models.RemoteTag{ID: tag.ID, Name: tag.Name})
	}
	return out
}

func (s *procedureService) remoteTag(ctx context.Context, users *userCache, tag store.ServerTag) models.RemoteTagGroup {
	members := tag.Members
	if members == nil {
		members = []models.Member{}
	}
	return models.RemoteTagGroup{
		ID:       tag.ID,
		Name:     tag.Name,
		User:     users.json(ctx, tag.OwnerID),
		Picture:  tag.Picture,
		IsSilent: tag.Silent,
		Members:  members,
	}
}

// userCache memoizes the user objects embedded into one response.
type userCache struct {
	users store.UserRepository
	byID  map[int64]json.RawMessage
}

func newUserCache(users store.UserRepository) *userCache {
	return &userCache{users: users, byID: make(map[int64]json.RawMessage)}
}

func (c *userCache) json(ctx context.Context, id int64) json.RawMessage {
	if raw, ok := c.byID[id]; ok {
		return raw
	}

	remote := models.RemoteUser{ID: id}
	if user, err := c.users.FindUserByID(ctx, id); err == nil {
		remote = user.Remote()
	}
	raw, _ := json.Marshal(remote)
	c.byID[id] = raw
	return raw
}

// intArg parses an optional integer argument. An empty value counts as
// zero.
func intArg(args url.Values, name string) (int64, bool, error) {
	if !args.Has(name) {
		return 0, false, nil
	}
	raw := strings.TrimSpace(args.Get(name))
	if raw == "" {
		return 0, true, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s=%q", ErrInvalidDataProvided, name, raw)
	}
	return v, true, nil
}

func toResult(v any) (Result, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out Result
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
