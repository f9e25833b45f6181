// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message constants shared by the development server
// handlers and the client error mapper.
//
// The server writes them into the "message" field of an error envelope and
// the client matches on them, so the wording must stay identical on both
// sides.
package app

const (
	// MsgInvalidDataProvided is returned when procedure arguments cannot be
	// parsed or a required argument is missing.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidEmailPassword is returned by user_signin when the
	// credentials do not match an account.
	MsgInvalidEmailPassword = "invalid email/password"

	// MsgInternalServerError is returned for unexpected server failures.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when the token argument has expired.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when the token argument is
	// missing or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInvalidSignature is returned when the request signature does not
	// match its arguments.
	MsgInvalidSignature = "invalid signature"

	// MsgAccessDenied is returned when the caller is neither the owner nor
	// a member of the record.
	MsgAccessDenied = "access denied"

	// MsgDataNotFound is returned when the referenced record does not exist.
	MsgDataNotFound = "data not found"

	// MsgUnknownProcedure is returned for an unregistered procedure name.
	MsgUnknownProcedure = "unknown procedure"

	// MsgSignInFailed is returned when a session token could not be issued.
	MsgSignInFailed = "sign in failed"

	// MsgEmailAlreadyExists is returned when an account is created with an
	// email that is already registered.
	MsgEmailAlreadyExists = "email already exists"
)
