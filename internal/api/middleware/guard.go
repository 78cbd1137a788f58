package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/postboard/blog-api/internal/core/domain"
)

// RequireIdentity rejects anonymous requests with domain.ErrNotAuthenticated,
// which the error handler renders as 401.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := domain.RequireAuth(c.Request().Context()); err != nil {
				return err
			}
			return next(c)
		}
	}
}
