// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the token middleware. Callers can match against them
// with [errors.Is].
var (
	// ErrNoToken is returned when neither the token argument nor the
	// "Authorization" header is present.
	ErrNoToken = errors.New("no token argument or `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header cannot be split into a scheme and a token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the header has a scheme but no token.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
