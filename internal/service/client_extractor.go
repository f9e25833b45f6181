package service

import (
	"github.com/MKhiriev/go-task-sync/models"
)

// Remote argument names.
const (
	paramID            = "id"
	paramToken         = "token"
	paramTitle         = "title"
	paramDue           = "due"
	paramHasDueTime    = "has_due_time"
	paramNotes         = "notes"
	paramDeletedAt     = "deleted_at"
	paramCompleted     = "completed"
	paramImportance    = "importance"
	paramRepeat        = "repeat"
	paramUserID        = "user_id"
	paramTags          = "tags"
	paramTagNames      = "tags[]"
	paramTagIDs        = "tag_ids[]"
	paramMessage       = "message"
	paramTagID         = "tag_id"
	paramTask          = "task"
	paramName          = "name"
	paramMembers       = "members"
	paramMemberList    = "members[]"
	paramModifiedAfter = "modified_after"
	paramEmail         = "email"
	paramPassword      = "password"
)

// taskPushFields are the task columns the server knows about.
var taskPushFields = []models.Field{
	models.FieldTitle, models.FieldDueDate, models.FieldNotes, models.FieldDeletedAt,
	models.FieldCompletedAt, models.FieldImportance, models.FieldRecurrence, models.FieldUserID,
}

// taskParams returns the task_save arguments for the fields named by
// changes. The full tag membership is sent when tags changed or when the
// task is being created.
func taskParams(task models.Task, changes models.ChangeSet, newlyCreated bool) models.Params {
	var p models.Params

	if changes.Has(models.FieldTitle) {
		p = p.Add(paramTitle, task.Title)
	}
	if changes.Has(models.FieldDueDate) {
		p = p.Add(paramDue, toSeconds(task.DueDate)).
			Add(paramHasDueTime, task.HasDueTime())
	}
	if changes.Has(models.FieldNotes) {
		p = p.Add(paramNotes, task.Notes)
	}
	if changes.Has(models.FieldDeletedAt) {
		p = p.Add(paramDeletedAt, toSeconds(task.DeletedAt))
	}
	if changes.Has(models.FieldCompletedAt) {
		p = p.Add(paramCompleted, toSeconds(task.CompletedAt))
	}
	if changes.Has(models.FieldImportance) {
		p = p.Add(paramImportance, task.Importance)
	}
	if changes.Has(models.FieldRecurrence) {
		p = p.Add(paramRepeat, task.Recurrence)
	}
	if changes.Has(models.FieldUserID) {
		p = p.Add(paramUserID, task.UserID)
	}

	if changes.TagsChanged || newlyCreated {
		p = appendTagParams(p, task.Tags)
	}

	return p
}

// appendTagParams sends each tag by remote id when it has one and by name
// otherwise. An empty "tags" argument clears the server membership;
// leaving it out would keep it.
func appendTagParams(p models.Params, tags []models.TaskTag) models.Params {
	if len(tags) == 0 {
		return p.Add(paramTags, "")
	}

	for _, tag := range tags {
		if tag.RemoteID > 0 {
			p = p.Add(paramTagIDs, tag.RemoteID)
		} else {
			p = p.Add(paramTagNames, tag.Name)
		}
	}
	return p
}

// updateParams returns the comment_add arguments. Only a changed message is
// ever sent; the comment target is resolved by the caller.
func updateParams(update models.Update, changes models.ChangeSet) models.Params {
	if !changes.Has(models.FieldMessage) {
		return nil
	}
	return models.Params{}.Add(paramMessage, update.Message)
}

// tagGroupParams returns the tag_save arguments for the fields named by
// changes.
func tagGroupParams(group models.TagGroup, changes models.ChangeSet) models.Params {
	var p models.Params

	if changes.Has(models.FieldName) {
		p = p.Add(paramName, group.Name)
	}

	if changes.Has(models.FieldMembers) {
		if len(group.Members) == 0 {
			p = p.Add(paramMembers, "")
		}
		for _, member := range group.Members {
			p = p.Add(paramMemberList, member.Wire())
		}
	}

	return p
}

// toSeconds converts local epoch milliseconds to server epoch seconds.
func toSeconds(millis int64) int64 {
	return millis / 1000
}

// fromSeconds converts server epoch seconds to local epoch milliseconds.
func fromSeconds(seconds int64) int64 {
	return seconds * 1000
}
