package ports

import (
	"context"

	"github.com/udtn/catalog-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user and returns it with its assigned ID.
	// A taken email yields domain.ErrDuplicateIdentity.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer mints signed access tokens for an identity.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// TokenVerifier checks a token's signature and expiry and decodes its identity.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}
