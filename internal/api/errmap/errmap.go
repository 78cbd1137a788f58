// Package errmap translates domain errors into the status codes and
// messages clients see, for both the GraphQL and the REST surface.
package errmap

import (
	"errors"
	"net/http"

	"github.com/postboard/blog-api/internal/core/domain"
)

// InternalMessage is shown for every error without a public mapping.
const InternalMessage = "internal server error"

// Mapped is the client-facing shape of an error.
type Mapped struct {
	Status  int
	Message string
	Data    []domain.FieldError
}

var known = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrEmailExists, http.StatusUnprocessableEntity, "Email already exists!"},
	{domain.ErrEmailNotFound, http.StatusNotFound, "Email not found!"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found!"},
	{domain.ErrPostNotFound, http.StatusNotFound, "Post not found!"},
	{domain.ErrNotAuthenticated, http.StatusUnauthorized, "Not authenticated!"},
	{domain.ErrWrongPassword, http.StatusUnauthorized, "The password is incorrect!"},
	{domain.ErrInvalidUser, http.StatusUnauthorized, "Invalid user!"},
	{domain.ErrNotAuthorized, http.StatusForbidden, "Not authorized!"},
}

// Map returns the public shape of err and whether err is a known domain
// error. Unknown errors map to 500 with InternalMessage.
func Map(err error) (Mapped, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return Mapped{
			Status:  http.StatusUnprocessableEntity,
			Message: "Invalid data entered!",
			Data:    ve.Fields,
		}, true
	}

	for _, k := range known {
		if errors.Is(err, k.err) {
			return Mapped{Status: k.status, Message: k.message}, true
		}
	}

	return Mapped{Status: http.StatusInternalServerError, Message: InternalMessage}, false
}
