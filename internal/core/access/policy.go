package access

import (
	"strings"

	"github.com/udtn/catalog-api/internal/core/domain"
)

type scope int

const (
	scopeGroup scope = iota
	scopeOperation
)

// Declaration attaches a role set to a group or to a single operation.
type Declaration struct {
	scope scope
	name  string
	roles RoleSet
}

// Group declares the roles for every operation in group that has no
// operation-level declaration of its own.
func Group(name string, roles ...domain.Role) Declaration {
	return Declaration{scope: scopeGroup, name: name, roles: NewRoleSet(roles...)}
}

// Operation declares the roles for a single operation id ("<group>.<name>").
func Operation(id string, roles ...domain.Role) Declaration {
	return Declaration{scope: scopeOperation, name: id, roles: NewRoleSet(roles...)}
}

// Policy is the static operation → role-set table. It is read-only once built
// and safe for concurrent use.
type Policy struct {
	groups     map[string]RoleSet
	operations map[string]RoleSet
}

// NewPolicy builds a Policy. A later declaration for the same name replaces
// an earlier one.
func NewPolicy(decls ...Declaration) *Policy {
	p := &Policy{
		groups:     make(map[string]RoleSet),
		operations: make(map[string]RoleSet),
	}
	for _, d := range decls {
		switch d.scope {
		case scopeGroup:
			p.groups[d.name] = d.roles
		case scopeOperation:
			p.operations[d.name] = d.roles
		}
	}
	return p
}

// Resolve returns the nearest declaration for operationID: the operation's own
// set if declared, otherwise its group's set. ok is false when neither exists.
func (p *Policy) Resolve(operationID string) (roles RoleSet, ok bool) {
	if roles, ok = p.operations[operationID]; ok {
		return roles, true
	}
	if roles, ok = p.groups[groupOf(operationID)]; ok {
		return roles, true
	}
	return nil, false
}

func groupOf(operationID string) string {
	if i := strings.LastIndexByte(operationID, '.'); i >= 0 {
		return operationID[:i]
	}
	return ""
}
