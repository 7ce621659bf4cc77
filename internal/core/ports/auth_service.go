package ports

import (
	"context"

	"github.com/udtn/catalog-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account. An empty role defaults to domain.RoleUser.
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	// Login returns a signed access token for valid credentials.
	Login(ctx context.Context, email, password string) (string, error)
}
