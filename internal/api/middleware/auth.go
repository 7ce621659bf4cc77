package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/core/ports"
)

// Authenticate validates the bearer token and stores the decoded identity in
// the context. Every failure wraps domain.ErrUnauthenticated.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthenticated)
			}

			identity, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}
