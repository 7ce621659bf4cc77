package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/udtn/catalog-api/internal/core/access"
	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/pkg/metrics"
)

// Guard enforces the role declaration that policy holds for operationID. The
// declaration is resolved once, when the route is wired.
func Guard(policy *access.Policy, operationID string) echo.MiddlewareFunc {
	declared, _ := policy.Resolve(operationID)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := access.Authorize(declared, IdentityFrom(c)); err != nil {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(operationID, decisionLabel(err)).Inc()
				return err
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(operationID, "allow").Inc()
			return next(c)
		}
	}
}

func decisionLabel(err error) string {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return "unauthenticated"
	}
	return "forbidden"
}
