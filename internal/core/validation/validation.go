// Package validation checks user and post input against field rules.
//
// Every rule is evaluated; the result lists all violations in field order so
// clients can show them together.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

var validate = validator.New()

type userRules struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5"`
}

type postRules struct {
	Title   string `validate:"min=5"`
	Content string `validate:"min=5"`
}

// messages maps a struct field to the message reported for any rule
// violated on it.
var messages = map[string]string{
	"Email":    "Email is invalid!",
	"Password": "Password is invalid!",
	"Title":    "Title is too short!",
	"Content":  "Content is too short!",
}

// User validates registration input.
func User(in ports.UserInput) []domain.FieldError {
	return collect(userRules{Email: in.Email, Password: in.Password})
}

// Post validates post input for both create and update.
func Post(in ports.PostInput) []domain.FieldError {
	return collect(postRules{Title: in.Title, Content: in.Content})
}

// Check wraps a non-empty violation list into a *domain.ValidationError.
func Check(errs []domain.FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: errs}
}

func collect(rules any) []domain.FieldError {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.FieldError{{Message: err.Error()}}
	}

	out := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.FieldError{Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}
