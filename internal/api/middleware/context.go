package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/udtn/catalog-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity attaches the authenticated caller to the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by Authenticate, or nil when the
// request is anonymous.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}
