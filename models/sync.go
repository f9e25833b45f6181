// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strconv"

// EntityKind names a synced entity kind.
type EntityKind string

const (
	KindTask     EntityKind = "task"
	KindUpdate   EntityKind = "update"
	KindTagGroup EntityKind = "tag_group"
)

// IDPair links a local row to the remote record it mirrors.
type IDPair struct {
	RemoteID int64
	LocalID  int64
}

// Sync keys identify one fetchable list; each owns a pair of watermarks.
const SyncKeyGoals = "goals"

// TasksSyncKey is the sync key of the task list of a tag group.
func TasksSyncKey(tagGroupID int64) string {
	return "tasks:" + strconv.FormatInt(tagGroupID, 10)
}

// UpdatesSyncKey is the sync key of the activity list of a tag group.
func UpdatesSyncKey(tagGroupID int64) string {
	return "updates:" + strconv.FormatInt(tagGroupID, 10)
}

// LastAttemptKey is the watermark key holding the client time of the last
// successful fetch of syncKey.
func LastAttemptKey(syncKey string) string {
	return "last_attempt:" + syncKey
}

// ServerCursorKey is the watermark key holding the server cursor echoed by
// the last successful fetch of syncKey.
func ServerCursorKey(syncKey string) string {
	return "server_cursor:" + syncKey
}
