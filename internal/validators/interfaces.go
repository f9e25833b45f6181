// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user input before it reaches the local store.
//
// The client validates task, comment and tag group input as well as sign-in
// credentials. Passing field names restricts the check to those fields, so
// an edit only validates what it changes.
package validators

import "context"

// Validator checks one input value. With fields set, only the named fields
// are checked; an empty list checks the whole value.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
