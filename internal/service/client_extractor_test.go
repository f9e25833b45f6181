package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/models"
)

func TestTaskParams_OnlyChangedFields(t *testing.T) {
	task := models.Task{
		ID:       1,
		RemoteID: 42,
		Title:    "buy milk",
		Notes:    "2%",
		DueDate:  models.NewDueDate(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), true),
	}

	params := taskParams(task, models.NewChangeSet(models.FieldTitle), false)

	assert.Equal(t, []string{paramTitle}, params.Names())
	v, _ := params.Get(paramTitle)
	assert.Equal(t, "buy milk", v)
}

func TestTaskParams_EmptyChangeSet(t *testing.T) {
	params := taskParams(models.Task{Title: "x"}, models.NewChangeSet(), false)
	assert.Empty(t, params)
}

func TestTaskParams_Order(t *testing.T) {
	task := models.Task{
		Title:       "t",
		DueDate:     models.NewDueDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false),
		Notes:       "n",
		DeletedAt:   1_700_000_001_000,
		CompletedAt: 1_700_000_002_999,
		Importance:  models.ImportanceHigh,
		Recurrence:  "FREQ=DAILY",
		UserID:      9,
	}
	changes := models.NewChangeSet(taskPushFields...)
	changes.TagsChanged = true

	params := taskParams(task, changes, false)

	assert.Equal(t, []string{
		paramTitle, paramDue, paramHasDueTime, paramNotes, paramDeletedAt,
		paramCompleted, paramImportance, paramRepeat, paramUserID, paramTags,
	}, params.Names())
}

func TestTaskParams_TimestampsInSeconds(t *testing.T) {
	task := models.Task{CompletedAt: 1_700_000_002_999, DeletedAt: 1_700_000_001_000}

	params := taskParams(task, models.NewChangeSet(models.FieldCompletedAt, models.FieldDeletedAt), false)

	completed, _ := params.Get(paramCompleted)
	deleted, _ := params.Get(paramDeletedAt)
	assert.Equal(t, int64(1_700_000_002), completed)
	assert.Equal(t, int64(1_700_000_001), deleted)
}

func TestTaskParams_HasDueTime(t *testing.T) {
	day := time.Date(2026, 3, 1, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		withTime bool
	}{
		{name: "specific day", withTime: false},
		{name: "specific time", withTime: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{DueDate: models.NewDueDate(day, tt.withTime)}

			params := taskParams(task, models.NewChangeSet(models.FieldDueDate), false)

			due, _ := params.Get(paramDue)
			hasTime, _ := params.Get(paramHasDueTime)
			assert.Equal(t, task.DueDate/1000, due)
			assert.Equal(t, tt.withTime, hasTime)
		})
	}
}

func TestTaskParams_TagsMarker(t *testing.T) {
	t.Run("new task without tags clears membership", func(t *testing.T) {
		params := taskParams(models.Task{Title: "t"}, models.NewChangeSet(models.FieldTitle), true)

		v, ok := params.Get(paramTags)
		require.True(t, ok)
		assert.Equal(t, "", v)
		assert.False(t, params.Has(paramTagNames))
	})

	t.Run("tags by id when known, by name otherwise", func(t *testing.T) {
		task := models.Task{Tags: []models.TaskTag{{Name: "home"}, {Name: "work", RemoteID: 7}}}
		changes := models.NewChangeSet()
		changes.TagsChanged = true

		params := taskParams(task, changes, false)

		assert.Equal(t, models.Params{
			{Name: paramTagNames, Value: "home"},
			{Name: paramTagIDs, Value: int64(7)},
		}, params)
	})

	t.Run("unchanged tags are not sent on update", func(t *testing.T) {
		task := models.Task{Title: "t", Tags: []models.TaskTag{{Name: "home"}}}
		params := taskParams(task, models.NewChangeSet(models.FieldTitle), false)
		assert.False(t, params.Has(paramTags))
		assert.False(t, params.Has(paramTagNames))
	})
}

func TestUpdateParams(t *testing.T) {
	update := models.Update{Message: "hello"}

	assert.Nil(t, updateParams(update, models.NewChangeSet(models.FieldCreatedAt)))
	assert.Equal(t, models.Params{{Name: paramMessage, Value: "hello"}},
		updateParams(update, models.NewChangeSet(models.FieldMessage, models.FieldCreatedAt)))
}

func TestTagGroupParams_Members(t *testing.T) {
	group := models.TagGroup{
		Name: "family",
		Members: []models.Member{
			{ID: 5, Email: "known@x.io"},
			{Name: "Ann", Email: "ann@x.io"},
			{Email: "bob@x.io"},
		},
	}

	params := tagGroupParams(group, models.NewChangeSet(models.FieldName, models.FieldMembers))

	assert.Equal(t, models.Params{
		{Name: paramName, Value: "family"},
		{Name: paramMemberList, Value: int64(5)},
		{Name: paramMemberList, Value: "Ann <ann@x.io>"},
		{Name: paramMemberList, Value: "bob@x.io"},
	}, params)
}

func TestTagGroupParams_EmptyMembers(t *testing.T) {
	params := tagGroupParams(models.TagGroup{}, models.NewChangeSet(models.FieldMembers))
	assert.Equal(t, models.Params{{Name: paramMembers, Value: ""}}, params)
}

func TestTagGroupParams_NothingChanged(t *testing.T) {
	params := tagGroupParams(models.TagGroup{Name: "x"}, models.NewChangeSet(models.FieldPicture))
	assert.Empty(t, params)
}
