package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidUser      = errors.New("invalid user")
	ErrEmailExists      = errors.New("email already exists")
	ErrEmailNotFound    = errors.New("email not found")
	ErrWrongPassword    = errors.New("password is incorrect")
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrInvalidInput     = errors.New("invalid data entered")
)

// FieldError is a single violated input rule.
type FieldError struct {
	Message string `json:"message"`
}

// ValidationError carries every rule an input violated. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
