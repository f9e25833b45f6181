// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

func ptr[T any](v T) *T { return &v }

func newTaskService(t *testing.T) (*clientTaskService, *store.ClientStorages, *fakeClock) {
	t.Helper()
	storages := newTestStorages(t)
	clock := newFakeClock()

	svc := NewClientTaskService(storages, validators.NewInputValidator(), logger.Nop()).(*clientTaskService)
	svc.now = clock.Now

	return svc, storages, clock
}

func TestAddTask(t *testing.T) {
	svc, storages, clock := newTaskService(t)
	ctx := context.Background()

	saveTagGroup(t, storages, models.TagGroup{Name: "Home", RemoteID: 30})

	var got []store.TaskChange
	unsubscribe := storages.Tasks.Changes().Subscribe(func(c store.TaskChange) { got = append(got, c) })
	defer unsubscribe()

	due := time.Date(2026, 6, 2, 0, 0, 0, 0, time.Local)
	task, err := svc.AddTask(ctx, models.TaskInput{
		Title: ptr("  water plants "),
		Due:   &due,
		Tags:  []string{"Home", "garden", "home"},
	})
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "water plants", task.Title)
	assert.Equal(t, models.ImportanceNone, task.Importance)
	assert.Equal(t, clock.Now().UnixMilli(), task.CreatedAt)
	assert.False(t, task.HasDueTime())
	assert.Equal(t, []models.TaskTag{{Name: "Home", RemoteID: 30}, {Name: "garden"}}, task.Tags)

	require.Len(t, got, 1)
	assert.True(t, got[0].Changes.TagsChanged)
	assert.True(t, got[0].Changes.Has(models.FieldTitle))
	assert.True(t, got[0].Changes.Has(models.FieldDueDate))
	assert.False(t, got[0].Changes.Has(models.FieldNotes))
}

func TestAddTask_Invalid(t *testing.T) {
	svc, _, _ := newTaskService(t)

	_, err := svc.AddTask(context.Background(), models.TaskInput{Title: ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrEmptyTitle)

	_, err = svc.AddTask(context.Background(), models.TaskInput{Title: ptr("x"), Importance: ptr(9)})
	assert.ErrorIs(t, err, validators.ErrInvalidImportance)
}

func TestEditTask(t *testing.T) {
	svc, storages, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, models.TaskInput{Title: ptr("draft")})
	require.NoError(t, err)

	var got []store.TaskChange
	unsubscribe := storages.Tasks.Changes().Subscribe(func(c store.TaskChange) { got = append(got, c) })
	defer unsubscribe()

	edited, err := svc.EditTask(ctx, task.ID, models.TaskInput{Notes: ptr("two bags")})
	require.NoError(t, err)
	assert.Equal(t, "draft", edited.Title)
	assert.Equal(t, "two bags", edited.Notes)

	require.Len(t, got, 1)
	assert.Equal(t, []models.Field{models.FieldNotes}, got[0].Changes.Fields())
	assert.False(t, got[0].Changes.TagsChanged)

	_, err = svc.EditTask(ctx, task.ID, models.TaskInput{})
	assert.ErrorIs(t, err, validators.ErrNoFieldsToUpdate)

	_, err = svc.EditTask(ctx, 404, models.TaskInput{Notes: ptr("x")})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteTask(t *testing.T) {
	svc, _, clock := newTaskService(t)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, models.TaskInput{Title: ptr("pay rent")})
	require.NoError(t, err)

	done, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), done.CompletedAt)

	clock.Advance(time.Hour)
	again, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)

	open, err := svc.ListTasks(ctx, "", false)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := svc.ListTasks(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddComment(t *testing.T) {
	svc, storages, _ := newTaskService(t)
	ctx := context.Background()

	group := saveTagGroup(t, storages, models.TagGroup{Name: "home"})
	task, err := svc.AddTask(ctx, models.TaskInput{Title: ptr("fix sink")})
	require.NoError(t, err)

	onTask, err := svc.AddComment(ctx, models.CommentInput{Message: "bought a wrench", TaskID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, task.ID, onTask.TaskID)
	assert.Equal(t, "fix sink", onTask.TargetName)
	assert.Equal(t, commentAction, onTask.Action)

	onGroup, err := svc.AddComment(ctx, models.CommentInput{Message: "hello", TagGroupID: group.ID})
	require.NoError(t, err)
	assert.Equal(t, group.ID, onGroup.TagID)

	_, err = svc.AddComment(ctx, models.CommentInput{Message: "x", TagGroupID: 404})
	assert.ErrorIs(t, err, ErrTagGroupNotFound)

	_, err = svc.AddComment(ctx, models.CommentInput{Message: "x", TaskID: task.ID, TagGroupID: group.ID})
	assert.ErrorIs(t, err, validators.ErrNoCommentTarget)

	comments, err := svc.ListComments(ctx, group.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Message)
}

func TestAddTagGroup(t *testing.T) {
	svc, storages, _ := newTaskService(t)
	ctx := context.Background()

	var got []store.TagGroupChange
	unsubscribe := storages.TagGroups.Changes().Subscribe(func(c store.TagGroupChange) { got = append(got, c) })
	defer unsubscribe()

	group, err := svc.AddTagGroup(ctx, models.TagGroupInput{
		Name:    " family ",
		Members: []models.Member{{Email: "kim@example.com"}, {ID: 7}},
		Notify:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "family", group.Name)
	assert.Equal(t, 2, group.MemberCount)

	require.Len(t, got, 1)
	assert.True(t, got[0].Changes.NotifyOnComplete)

	_, err = svc.AddTagGroup(ctx, models.TagGroupInput{Name: "family"})
	assert.ErrorIs(t, err, ErrTagGroupExists)

	_, err = svc.AddTagGroup(ctx, models.TagGroupInput{Name: "x", Members: []models.Member{{Email: "nope"}}})
	assert.ErrorIs(t, err, validators.ErrInvalidMember)

	found, err := svc.FindTagGroup(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, group.ID, found.ID)

	_, err = svc.FindTagGroup(ctx, "work")
	assert.ErrorIs(t, err, ErrTagGroupNotFound)
}
