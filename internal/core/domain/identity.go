package domain

import "context"

// Identity is the per-request principal derived from the bearer token.
// It is either Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

// Anonymous is the identity of a request without a usable token.
type Anonymous struct{}

// Authenticated is the identity of a request carrying a valid token.
type Authenticated struct {
	UserID string
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored on ctx, or Anonymous.
func IdentityFrom(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok && id != nil {
		return id
	}
	return Anonymous{}
}

// RequireAuth returns the authenticated identity on ctx or
// ErrNotAuthenticated.
func RequireAuth(ctx context.Context) (Authenticated, error) {
	if a, ok := IdentityFrom(ctx).(Authenticated); ok && a.UserID != "" {
		return a, nil
	}
	return Authenticated{}, ErrNotAuthenticated
}
