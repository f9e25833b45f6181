package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle        = errors.New("title is required")
	ErrInvalidImportance = errors.New("importance must be between 0 and 3")
	ErrEmptyTagName      = errors.New("tag name cannot be empty")
	ErrEmptyMessage      = errors.New("message is required")
	ErrNoCommentTarget   = errors.New("comment needs exactly one of task or tag group")
	ErrEmptyName         = errors.New("name is required")
	ErrInvalidMember     = errors.New("member needs an id or a valid email")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmptyPassword     = errors.New("password is required")
	ErrNoFieldsToUpdate  = errors.New("at least one field must be provided for update")
)
