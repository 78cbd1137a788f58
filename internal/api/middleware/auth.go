package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

// Identify resolves the bearer token into a domain.Identity and stores it
// on the request context. It never rejects a request: a missing, malformed
// or invalid token yields domain.Anonymous and each operation decides
// whether that is enough.
func Identify(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := identify(verifier, req.Header.Get(echo.HeaderAuthorization), log)
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

func identify(verifier ports.TokenVerifier, header string, log zerolog.Logger) domain.Identity {
	if header == "" {
		return domain.Anonymous{}
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		log.Debug().Msg("malformed authorization header")
		return domain.Anonymous{}
	}

	userID, err := verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		log.Debug().Err(err).Msg("bearer token rejected")
		return domain.Anonymous{}
	}
	return domain.Authenticated{UserID: userID}
}
