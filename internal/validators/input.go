package validators

import (
	"context"
	"net/mail"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

// Field name constants used to restrict Validate to a subset of checks.
const (
	// FieldTitle requires a non-blank task title.
	FieldTitle = "title"

	// FieldImportance checks the importance level when one is given.
	FieldImportance = "importance"

	// FieldTags rejects blank tag names.
	FieldTags = "tags"

	// FieldAnyChange requires at least one task field to be set.
	FieldAnyChange = "any_change"

	// FieldMessage requires a non-blank comment.
	FieldMessage = "message"

	// FieldTarget requires exactly one comment target.
	FieldTarget = "target"

	// FieldName requires a non-blank tag group name.
	FieldName = "name"

	// FieldMembers checks every tag group member.
	FieldMembers = "members"

	// FieldEmail requires a parseable email address.
	FieldEmail = "email"

	// FieldPassword requires a non-empty password.
	FieldPassword = "password"
)

// InputValidator implements Validator for user input handled by the
// client: task, comment and tag group input and sign-in credentials.
type InputValidator struct {
}

// NewInputValidator returns an InputValidator as a Validator.
func NewInputValidator() Validator {
	return &InputValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Without fields a default set is checked: a task must
// have a title, everything else is checked in full.
func (v *InputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.TaskInput:
		return v.validateTask(value, fields...)
	case *models.TaskInput:
		return v.validateTask(*value, fields...)

	case models.CommentInput:
		return v.validateComment(value, fields...)
	case *models.CommentInput:
		return v.validateComment(*value, fields...)

	case models.TagGroupInput:
		return v.validateTagGroup(value, fields...)
	case *models.TagGroupInput:
		return v.validateTagGroup(*value, fields...)

	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *InputValidator) validateTask(input models.TaskInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldImportance, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if input.Title == nil || isBlank(*input.Title) {
				return ErrEmptyTitle
			}
		case FieldImportance:
			if input.Importance != nil &&
				(*input.Importance < models.ImportanceMustDo || *input.Importance > models.ImportanceNone) {
				return ErrInvalidImportance
			}
		case FieldTags:
			for _, tag := range input.Tags {
				if isBlank(tag) {
					return ErrEmptyTagName
				}
			}
		case FieldAnyChange:
			if input.Title == nil && input.Notes == nil && input.Importance == nil &&
				input.Due == nil && input.Recurrence == nil && input.Tags == nil {
				return ErrNoFieldsToUpdate
			}
			if input.Title != nil && isBlank(*input.Title) {
				return ErrEmptyTitle
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InputValidator) validateComment(input models.CommentInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMessage, FieldTarget}
	}

	for _, f := range fields {
		switch f {
		case FieldMessage:
			if isBlank(input.Message) {
				return ErrEmptyMessage
			}
		case FieldTarget:
			if (input.TaskID > 0) == (input.TagGroupID > 0) {
				return ErrNoCommentTarget
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InputValidator) validateTagGroup(input models.TagGroupInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldMembers}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if isBlank(input.Name) {
				return ErrEmptyName
			}
		case FieldMembers:
			for _, m := range input.Members {
				if m.ID > 0 {
					continue
				}
				if !isEmail(m.Email) {
					return ErrInvalidMember
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InputValidator) validateCredentials(c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !isEmail(c.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if c.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isEmail accepts a bare address only; display names belong in Member.Name.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
