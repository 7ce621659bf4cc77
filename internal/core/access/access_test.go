package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udtn/catalog-api/internal/core/domain"
)

func TestAuthorize(t *testing.T) {
	admin := &domain.Identity{Email: "root@example.com", Subject: "1", Role: domain.RoleAdmin}
	user := &domain.Identity{Email: "a@b.com", Subject: "2", Role: domain.RoleUser}

	tests := []struct {
		name     string
		declared RoleSet
		caller   *domain.Identity
		wantErr  error
	}{
		{name: "admin only, user caller", declared: NewRoleSet(domain.RoleAdmin), caller: user, wantErr: domain.ErrForbidden},
		{name: "admin only, admin caller", declared: NewRoleSet(domain.RoleAdmin), caller: admin},
		{name: "undeclared, any caller", declared: nil, caller: user},
		{name: "undeclared, anonymous caller", declared: nil, caller: nil},
		{name: "admin only, anonymous caller", declared: NewRoleSet(domain.RoleAdmin), caller: nil, wantErr: domain.ErrUnauthenticated},
		{name: "user only, admin caller is not promoted", declared: NewRoleSet(domain.RoleUser), caller: admin, wantErr: domain.ErrForbidden},
		{name: "both roles, user caller", declared: NewRoleSet(domain.RoleUser, domain.RoleAdmin), caller: user},
		{name: "empty declaration admits nobody", declared: NewRoleSet(), caller: admin, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.declared, tt.caller)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestPolicy_ResolvePrefersOperation(t *testing.T) {
	p := NewPolicy(
		Group("products", domain.RoleUser, domain.RoleAdmin),
		Operation("products.delete", domain.RoleAdmin),
	)

	roles, ok := p.Resolve("products.delete")
	require.True(t, ok)
	assert.Equal(t, "admin", roles.String())

	roles, ok = p.Resolve("products.list")
	require.True(t, ok)
	assert.Equal(t, "admin,user", roles.String())
}

func TestPolicy_ResolveUndeclared(t *testing.T) {
	p := NewPolicy(Operation("products.create", domain.RoleAdmin))

	_, ok := p.Resolve("products.list")
	assert.False(t, ok)

	_, ok = p.Resolve("auth.login")
	assert.False(t, ok)

	_, ok = p.Resolve("noscope")
	assert.False(t, ok)
}

func TestPolicy_LaterDeclarationWins(t *testing.T) {
	p := NewPolicy(
		Operation("products.update", domain.RoleUser),
		Operation("products.update", domain.RoleAdmin),
	)

	roles, ok := p.Resolve("products.update")
	require.True(t, ok)
	assert.True(t, roles.Has(domain.RoleAdmin))
	assert.False(t, roles.Has(domain.RoleUser))
}

func TestPolicy_NestedGroup(t *testing.T) {
	p := NewPolicy(Group("admin.products", domain.RoleAdmin))

	roles, ok := p.Resolve("admin.products.purge")
	require.True(t, ok)
	assert.True(t, roles.Has(domain.RoleAdmin))
}
