// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"
)

// Field names a locally stored column of a synced entity. Change sets and
// partial updates are expressed in terms of these names.
type Field string

// Shared fields.
const (
	FieldRemoteID  Field = "remote_id"
	FieldUserID    Field = "user_id"
	FieldUser      Field = "user"
	FieldCreatedAt Field = "created_at"
	FieldPicture   Field = "picture"
)

// Task fields.
const (
	FieldTitle        Field = "title"
	FieldDueDate      Field = "due_date"
	FieldNotes        Field = "notes"
	FieldCompletedAt  Field = "completed_at"
	FieldDeletedAt    Field = "deleted_at"
	FieldImportance   Field = "importance"
	FieldRecurrence   Field = "recurrence"
	FieldCommentCount Field = "comment_count"
)

// Update fields.
const (
	FieldMessage    Field = "message"
	FieldAction     Field = "action"
	FieldActionCode Field = "action_code"
	FieldTargetName Field = "target_name"
	FieldTagID      Field = "tag_id"
	FieldTaskID     Field = "task_id"
)

// Tag group fields.
const (
	FieldName        Field = "name"
	FieldMembers     Field = "members"
	FieldMemberCount Field = "member_count"
	FieldSilent      Field = "silent"
)

// ChangeSet describes one local write: which columns it touched and the
// side-channel signals that travel with it to the push pipeline.
//
// A ChangeSet is a value; With returns a copy so a published change set is
// never mutated by a subscriber.
type ChangeSet struct {
	fields map[Field]struct{}

	// TagsChanged reports that the task's tag associations were rewritten
	// in the same local transaction.
	TagsChanged bool

	// NotifyOnComplete asks the push pipeline to emit a one-shot user
	// notification once the remote call finishes, whatever its outcome.
	NotifyOnComplete bool
}

// NewChangeSet returns a change set containing fields.
func NewChangeSet(fields ...Field) ChangeSet {
	cs := ChangeSet{fields: make(map[Field]struct{}, len(fields))}
	for _, f := range fields {
		cs.fields[f] = struct{}{}
	}
	return cs
}

// Has reports whether f was touched.
func (c ChangeSet) Has(f Field) bool {
	_, ok := c.fields[f]
	return ok
}

// IsEmpty reports whether no column was touched and no tag rewrite happened.
func (c ChangeSet) IsEmpty() bool {
	return len(c.fields) == 0 && !c.TagsChanged
}

// With returns a copy of c extended by fields.
func (c ChangeSet) With(fields ...Field) ChangeSet {
	out := ChangeSet{
		fields:           make(map[Field]struct{}, len(c.fields)+len(fields)),
		TagsChanged:      c.TagsChanged,
		NotifyOnComplete: c.NotifyOnComplete,
	}
	for f := range c.fields {
		out.fields[f] = struct{}{}
	}
	for _, f := range fields {
		out.fields[f] = struct{}{}
	}
	return out
}

// Fields returns the touched columns in lexical order.
func (c ChangeSet) Fields() []Field {
	out := make([]Field, 0, len(c.fields))
	for f := range c.fields {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
