package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

// Change sets written by inbound merges. Each contains remote_id, which is
// what keeps the push listeners from echoing the merge back to the server.
var (
	taskMergeFields = []models.Field{
		models.FieldRemoteID, models.FieldUserID, models.FieldUser, models.FieldCommentCount,
		models.FieldTitle, models.FieldImportance, models.FieldDueDate, models.FieldCompletedAt,
		models.FieldCreatedAt, models.FieldDeletedAt, models.FieldRecurrence, models.FieldNotes,
	}
	updateMergeFields = []models.Field{
		models.FieldRemoteID, models.FieldUserID, models.FieldUser, models.FieldAction,
		models.FieldActionCode, models.FieldTargetName, models.FieldMessage, models.FieldPicture,
		models.FieldCreatedAt, models.FieldTagID,
	}
	tagGroupMergeFields = []models.Field{
		models.FieldRemoteID, models.FieldName, models.FieldUserID, models.FieldUser,
		models.FieldPicture, models.FieldSilent, models.FieldMembers, models.FieldMemberCount,
	}
)

func taskMergeChanges() models.ChangeSet {
	cs := models.NewChangeSet(taskMergeFields...)
	cs.TagsChanged = true
	return cs
}

// readRemoteIDs returns the "id" of every item, in order. It fails on the
// first item without a positive one.
func readRemoteIDs(items []json.RawMessage) ([]int64, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		id, err := readRemoteID(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func readRemoteID(item json.RawMessage) (int64, error) {
	var head struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(item, &head); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedRemoteItem, err)
	}
	if head.ID == nil {
		return 0, fmt.Errorf("%w: missing id", ErrMalformedRemoteItem)
	}
	if *head.ID <= 0 {
		return 0, fmt.Errorf("%w: invalid id %d", ErrMalformedRemoteItem, *head.ID)
	}
	return *head.ID, nil
}

// readUser returns the user id and raw user object of a record, or zero
// values when the record belongs to currentUserID.
func readUser(raw json.RawMessage, currentUserID int64) (int64, string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, "", nil
	}

	var user models.RemoteUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return 0, "", fmt.Errorf("%w: user: %w", ErrMalformedRemoteItem, err)
	}
	if user.ID == currentUserID {
		return 0, "", nil
	}

	return user.ID, string(raw), nil
}

func taskFromRemote(item json.RawMessage, currentUserID int64) (models.Task, error) {
	var remote models.RemoteTask
	if err := json.Unmarshal(item, &remote); err != nil {
		return models.Task{}, fmt.Errorf("%w: task: %w", ErrMalformedRemoteItem, err)
	}

	userID, user, err := readUser(remote.User, currentUserID)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		RemoteID:     remote.ID,
		UserID:       userID,
		User:         user,
		CommentCount: remote.CommentCount,
		Title:        remote.Title,
		Importance:   remote.Importance,
		CompletedAt:  fromSeconds(remote.CompletedAt),
		CreatedAt:    fromSeconds(remote.CreatedAt),
		DeletedAt:    fromSeconds(remote.DeletedAt),
		Recurrence:   remote.Repeat,
		Notes:        remote.Notes,
		Tags:         make([]models.TaskTag, 0, len(remote.Tags)),
	}
	if remote.Due > 0 {
		task.DueDate = models.NewDueDate(time.Unix(remote.Due, 0), remote.HasDueTime == 1)
	}
	for _, tag := range remote.Tags {
		task.Tags = append(task.Tags, models.TaskTag{Name: tag.Name, RemoteID: tag.ID})
	}

	return task, nil
}

func updateFromRemote(item json.RawMessage, tagGroupID, currentUserID int64) (models.Update, error) {
	var remote models.RemoteUpdate
	if err := json.Unmarshal(item, &remote); err != nil {
		return models.Update{}, fmt.Errorf("%w: update: %w", ErrMalformedRemoteItem, err)
	}

	userID, user, err := readUser(remote.User, currentUserID)
	if err != nil {
		return models.Update{}, err
	}

	return models.Update{
		RemoteID:   remote.ID,
		TagID:      tagGroupID,
		UserID:     userID,
		User:       user,
		Action:     remote.Action,
		ActionCode: remote.ActionCode,
		TargetName: remote.TargetName,
		Message:    remote.Message,
		Picture:    remote.Picture,
		CreatedAt:  fromSeconds(remote.CreatedAt),
	}, nil
}

func tagGroupFromRemote(item json.RawMessage, currentUserID int64) (models.TagGroup, error) {
	var remote models.RemoteTagGroup
	if err := json.Unmarshal(item, &remote); err != nil {
		return models.TagGroup{}, fmt.Errorf("%w: tag: %w", ErrMalformedRemoteItem, err)
	}

	userID, user, err := readUser(remote.User, currentUserID)
	if err != nil {
		return models.TagGroup{}, err
	}

	return models.TagGroup{
		RemoteID:    remote.ID,
		Name:        remote.Name,
		UserID:      userID,
		User:        user,
		Picture:     remote.Picture,
		Silent:      remote.IsSilent,
		Members:     remote.Members,
		MemberCount: len(remote.Members),
	}, nil
}
