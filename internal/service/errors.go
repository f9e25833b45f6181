package service

import "errors"

// Engine errors.
var (
	// ErrMalformedRemoteItem means a list item or save response lacked a
	// mandatory field such as "id".
	ErrMalformedRemoteItem = errors.New("malformed remote item")

	// ErrNotAuthenticated is returned by user-facing operations that need a
	// session. Sync pipelines never return it; they do nothing instead.
	ErrNotAuthenticated = errors.New("not signed in")
)

// Remote call errors, mapped from adapter errors.
var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrWrongPassword         = errors.New("wrong email or password")
	ErrTokenIsExpired        = errors.New("token is expired")
	ErrTokenExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrAccessDenied          = errors.New("access denied")
	ErrRemoteNotFound        = errors.New("record not found on server")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrSignInOnServer        = errors.New("sign in failed on server")
	ErrServerUnavailable     = errors.New("server unavailable")
)

// Local lookup errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTagGroupNotFound = errors.New("tag not found")
	ErrTagGroupExists   = errors.New("tag already exists")
)

// Development server errors.
var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrUnknownProcedure      = errors.New("unknown procedure")
	ErrMissingParameter      = errors.New("missing parameter")
)
