package errmap

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/postboard/blog-api/internal/core/domain"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantKnown   bool
	}{
		{"email exists", domain.ErrEmailExists, http.StatusUnprocessableEntity, "Email already exists!", true},
		{"email not found", domain.ErrEmailNotFound, http.StatusNotFound, "Email not found!", true},
		{"wrong password", domain.ErrWrongPassword, http.StatusUnauthorized, "The password is incorrect!", true},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized, "Not authenticated!", true},
		{"invalid user", domain.ErrInvalidUser, http.StatusUnauthorized, "Invalid user!", true},
		{"post not found", domain.ErrPostNotFound, http.StatusNotFound, "Post not found!", true},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found!", true},
		{"not authorized", domain.ErrNotAuthorized, http.StatusForbidden, "Not authorized!", true},
		{"wrapped", fmt.Errorf("delete post: %w", domain.ErrPostNotFound), http.StatusNotFound, "Post not found!", true},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, InternalMessage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, known := Map(tt.err)
			if m.Status != tt.wantStatus || m.Message != tt.wantMessage || known != tt.wantKnown {
				t.Errorf("Map() = (%d, %q, %v), want (%d, %q, %v)",
					m.Status, m.Message, known, tt.wantStatus, tt.wantMessage, tt.wantKnown)
			}
		})
	}
}

func TestMap_ValidationErrorCarriesFields(t *testing.T) {
	fields := []domain.FieldError{{Message: "Title is too short!"}, {Message: "Content is too short!"}}
	m, known := Map(fmt.Errorf("create post: %w", &domain.ValidationError{Fields: fields}))

	if !known || m.Status != http.StatusUnprocessableEntity || m.Message != "Invalid data entered!" {
		t.Fatalf("unexpected mapping %+v (known=%v)", m, known)
	}
	if len(m.Data) != 2 || m.Data[1].Message != "Content is too short!" {
		t.Errorf("unexpected data %v", m.Data)
	}
}
