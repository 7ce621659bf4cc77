// Package access decides whether a caller may invoke an operation.
//
// Operations are identified as "<group>.<name>" (for example "products.delete").
// Required roles are declared once, when the router is wired, through a Policy.
// Authorize evaluates one declaration against one caller; it holds no state.
package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/udtn/catalog-api/internal/core/domain"
)

// RoleSet is the set of roles permitted to invoke an operation.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a RoleSet from roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports exact membership; roles are not hierarchical.
func (s RoleSet) Has(r domain.Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Authorize decides a single request.
//
//   - declared == nil: the operation is unrestricted, allow.
//   - caller == nil: domain.ErrUnauthenticated.
//   - caller.Role not in declared: domain.ErrForbidden.
//
// A declared but empty set admits nobody.
func Authorize(declared RoleSet, caller *domain.Identity) error {
	if declared == nil {
		return nil
	}
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if !declared.Has(caller.Role) {
		return fmt.Errorf("%w: role %q is not permitted", domain.ErrForbidden, caller.Role)
	}
	return nil
}
