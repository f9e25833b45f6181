// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

type procedureFixture struct {
	svc   *procedureService
	clock *fakeClock
	owner models.User
	other models.User
}

func newProcedureFixture(t *testing.T) *procedureFixture {
	t.Helper()
	storages := store.NewServerStorages(logger.Nop())
	ctx := context.Background()

	owner, err := storages.Users.CreateUser(ctx, models.User{Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	other, err := storages.Users.CreateUser(ctx, models.User{Email: "kim@example.com", Name: "Kim"})
	require.NoError(t, err)

	clock := newFakeClock()
	return &procedureFixture{
		svc:   newProcedureService(storages.Users, storages.Records, clock.Now, logger.Nop()),
		clock: clock,
		owner: owner,
		other: other,
	}
}

func (f *procedureFixture) call(t *testing.T, userID int64, procedure string, args url.Values) Result {
	t.Helper()
	res, err := f.svc.Call(context.Background(), userID, procedure, args)
	require.NoError(t, err)
	return res
}

func resultID(t *testing.T, res Result) int64 {
	t.Helper()
	id, ok := res[paramID].(int64)
	require.Truef(t, ok, "id missing in %v", res)
	return id
}

func TestProcedures_UnknownAndCaller(t *testing.T) {
	f := newProcedureFixture(t)

	_, err := f.svc.Call(context.Background(), f.owner.UserID, "task_delete", url.Values{})
	assert.ErrorIs(t, err, ErrUnknownProcedure)

	_, err = f.svc.Call(context.Background(), 999, models.ProcedureTaskList, url.Values{})
	assert.ErrorIs(t, err, ErrTokenExpiredOrInvalid)
}

func TestProcedures_TaskSave(t *testing.T) {
	f := newProcedureFixture(t)
	ctx := context.Background()

	_, err := f.svc.Call(ctx, f.owner.UserID, models.ProcedureTaskSave, url.Values{"notes": {"no title"}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	created := f.call(t, f.owner.UserID, models.ProcedureTaskSave, url.Values{
		"title":        {"buy milk"},
		"due":          {"1780000001"},
		"has_due_time": {"1"},
		"tags":         {""},
		"tags[]":       {"home"},
	})
	taskID := resultID(t, created)

	f.call(t, f.owner.UserID, models.ProcedureTaskSave, url.Values{
		"id":        {itoa(taskID)},
		"completed": {"1780000500"},
	})

	res := f.call(t, f.owner.UserID, models.ProcedureTaskList, url.Values{"modified_after": {"0"}})
	list := res["list"].([]models.RemoteTask)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Title)
	assert.Equal(t, 1, list[0].HasDueTime)
	assert.Equal(t, int64(1780000500), list[0].CompletedAt)
	require.Len(t, list[0].Tags, 1)
	assert.Equal(t, "home", list[0].Tags[0].Name)
	assert.Equal(t, f.clock.Now().Unix(), res["time"])

	_, err = f.svc.Call(ctx, f.other.UserID, models.ProcedureTaskSave, url.Values{"id": {itoa(taskID)}, "title": {"mine now"}})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureTaskSave, url.Values{"id": {"123456"}})
	assert.ErrorIs(t, err, ErrRemoteNotFound)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureTaskSave, url.Values{"title": {"x"}, "due": {"soon"}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestProcedures_TagSaveAndShow(t *testing.T) {
	f := newProcedureFixture(t)
	ctx := context.Background()

	res := f.call(t, f.owner.UserID, models.ProcedureTagSave, url.Values{
		"name":      {"family"},
		"members[]": {itoa(f.other.UserID), "Ann <ann@example.com>", "KIM@example.com"},
	})
	tagID := resultID(t, res)

	shown := f.call(t, f.owner.UserID, models.ProcedureTagShow, url.Values{"name": {"family"}})
	assert.Equal(t, "family", shown["name"])
	members := shown["members"].([]any)
	require.Len(t, members, 3)
	assert.Equal(t, map[string]any{"id": float64(f.other.UserID), "name": "Kim", "email": "kim@example.com"}, members[0])
	assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@example.com"}, members[1])
	assert.Equal(t, float64(f.other.UserID), members[2].(map[string]any)["id"])

	// Members see the tag in their goal list.
	goals := f.call(t, f.other.UserID, models.ProcedureGoalList, url.Values{})
	list := goals["list"].([]models.RemoteTagGroup)
	require.Len(t, list, 1)
	assert.Equal(t, tagID, list[0].ID)

	byID := f.call(t, f.other.UserID, models.ProcedureTagShow, url.Values{"id": {itoa(tagID)}})
	assert.Equal(t, float64(tagID), byID["id"])

	f.call(t, f.owner.UserID, models.ProcedureTagSave, url.Values{"id": {itoa(tagID)}, "members": {""}})
	_, err := f.svc.Call(ctx, f.other.UserID, models.ProcedureTagShow, url.Values{"id": {itoa(tagID)}})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureTagShow, url.Values{"name": {"work"}})
	assert.ErrorIs(t, err, ErrRemoteNotFound)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureTagSave, url.Values{"name": {"x"}, "members[]": {"not an address"}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestProcedures_CommentsAndActivity(t *testing.T) {
	f := newProcedureFixture(t)
	ctx := context.Background()

	tagID := resultID(t, f.call(t, f.owner.UserID, models.ProcedureTagSave, url.Values{"name": {"home"}, "members[]": {itoa(f.other.UserID)}}))
	taskID := resultID(t, f.call(t, f.owner.UserID, models.ProcedureTaskSave, url.Values{"title": {"fix sink"}, "tag_ids[]": {itoa(tagID)}}))

	f.call(t, f.other.UserID, models.ProcedureCommentAdd, url.Values{"message": {"on it"}, "tag_id": {itoa(tagID)}})
	f.call(t, f.owner.UserID, models.ProcedureCommentAdd, url.Values{"message": {"thanks"}, "task": {itoa(taskID)}})

	res := f.call(t, f.owner.UserID, models.ProcedureActivityList, url.Values{"tag_id": {itoa(tagID)}, "modified_after": {"0"}})
	list := res["list"].([]models.RemoteUpdate)
	require.Len(t, list, 1)
	assert.Equal(t, "on it", list[0].Message)
	assert.Equal(t, actionCodeTagComment, list[0].ActionCode)
	assert.Equal(t, "home", list[0].TargetName)
	assert.JSONEq(t, `{"id":`+itoa(f.other.UserID)+`,"name":"Kim","email":"kim@example.com"}`, string(list[0].User))

	tasks := f.call(t, f.other.UserID, models.ProcedureTaskList, url.Values{"tag_id": {itoa(tagID)}})
	assert.Len(t, tasks["list"].([]models.RemoteTask), 1)

	_, err := f.svc.Call(ctx, f.owner.UserID, models.ProcedureActivityList, url.Values{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureCommentAdd, url.Values{"message": {"lost"}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = f.svc.Call(ctx, f.owner.UserID, models.ProcedureCommentAdd, url.Values{"tag_id": {itoa(tagID)}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestProcedures_ModifiedAfter(t *testing.T) {
	f := newProcedureFixture(t)

	f.call(t, f.owner.UserID, models.ProcedureTaskSave, url.Values{"title": {"old"}})

	res := f.call(t, f.owner.UserID, models.ProcedureTaskList, url.Values{"modified_after": {"99999999999"}})
	assert.Empty(t, res["list"].([]models.RemoteTask))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
