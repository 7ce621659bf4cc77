package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/infrastructure/security"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Create mirrors the unique index on email.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrDuplicateIdentity
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

const testSecret = "secret"

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(
		repo,
		security.NewBcryptHasher(bcrypt.MinCost),
		security.NewTokenIssuer(testSecret, time.Hour, "catalog-api"),
		zerolog.Nop(),
	)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "a@b.com", "secret1", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users["a@b.com"].PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_ExplicitAdmin(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), "root@example.com", "secret1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "secret1", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "secret1", "superuser"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "bob@example.com", "secret1", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "secret2", ""); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthService_Register_DuplicateIgnoresCase(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), "bob@example.com", "secret1", "")
	if _, err := svc.Register(context.Background(), " Bob@Example.com ", "secret1", ""); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthService_Register_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "a@b.com", "secret1", "")
	if err == nil || errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	registered, err := svc.Register(context.Background(), "a@b.com", "secret1", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	id, err := security.NewTokenIssuer(testSecret, time.Hour, "catalog-api").Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.Email != "a@b.com" {
		t.Fatalf("expected email a@b.com, got %q", id.Email)
	}
	if id.Role != domain.RoleUser {
		t.Fatalf("expected role %s, got %s", domain.RoleUser, id.Role)
	}
	if id.Subject != registered.ID {
		t.Fatalf("expected subject %q, got %q", registered.ID, id.Subject)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass", "")

	_, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("errors must be identical: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("db unavailable")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "a@b.com", "secret1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
