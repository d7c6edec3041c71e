package access

import (
	"fmt"
	"sort"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// grantKey identifies a single cell of the grant table.
type grantKey struct {
	role   entities.PermissionRole
	module entities.Module
	action entities.Action
}

// Policy is an immutable grant table indexed for constant-time lookup.
// It is constructed once (from seeded grant rows or DefaultGrants) and
// injected into the checker; nothing mutates it after construction.
type Policy struct {
	scopes map[grantKey]entities.Scope
}

// NewPolicy builds a Policy from a list of grants. Every grant is
// validated; when the same (role, module, action) cell appears more than
// once, the widest scope wins.
func NewPolicy(grants []*entities.Grant) (*Policy, error) {
	scopes := make(map[grantKey]entities.Scope, len(grants))
	for i, g := range grants {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("invalid grant at index %d: %w", i, err)
		}
		key := grantKey{role: g.Role, module: g.Module, action: g.Action}
		if existing, ok := scopes[key]; !ok || g.Scope.Wider(existing) {
			scopes[key] = g.Scope
		}
	}
	return &Policy{scopes: scopes}, nil
}

// ScopeFor returns the widest scope any of the held permission roles
// grants for (module, action). Evaluation is a union across roles:
// a single grant is enough. ScopeNone means no grant exists, which is
// a denial (default-deny).
func (p *Policy) ScopeFor(roles []entities.PermissionRole, module entities.Module, action entities.Action) entities.Scope {
	result := entities.ScopeNone
	for _, role := range roles {
		if scope, ok := p.scopes[grantKey{role: role, module: module, action: action}]; ok {
			if scope.Wider(result) {
				result = scope
			}
		}
	}
	return result
}

// Allows reports whether any of the held roles grants (module, action).
func (p *Policy) Allows(roles []entities.PermissionRole, module entities.Module, action entities.Action) bool {
	return p.ScopeFor(roles, module, action) != entities.ScopeNone
}

// Grants returns the policy's grant cells as a sorted list.
func (p *Policy) Grants() []*entities.Grant {
	grants := make([]*entities.Grant, 0, len(p.scopes))
	for key, scope := range p.scopes {
		grants = append(grants, &entities.Grant{
			Role:   key.role,
			Module: key.module,
			Action: key.action,
			Scope:  scope,
		})
	}
	sort.Slice(grants, func(i, j int) bool {
		a, b := grants[i], grants[j]
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Action < b.Action
	})
	return grants
}

// Size returns the number of grant cells in the policy.
func (p *Policy) Size() int {
	return len(p.scopes)
}

// DefaultGrants returns the stock grant matrix a tenant starts with.
// The same data backs the migration seed.
func DefaultGrants() []*entities.Grant {
	var grants []*entities.Grant

	add := func(role entities.PermissionRole, module entities.Module, scope entities.Scope, actions ...entities.Action) {
		for _, action := range actions {
			grants = append(grants, &entities.Grant{Role: role, Module: module, Action: action, Scope: scope})
		}
	}

	// SuperAdmin: every action on every module, organization-wide.
	for _, module := range entities.Modules {
		add(entities.PermRoleSuperAdmin, module, entities.ScopeAll, entities.Actions...)
	}

	// Admin: organization-wide on everything except billing approval and
	// settings administration, which stay with the partners.
	for _, module := range entities.Modules {
		switch module {
		case entities.ModuleBilling:
			add(entities.PermRoleAdmin, module, entities.ScopeAll,
				entities.ActionRead, entities.ActionCreate, entities.ActionUpdate, entities.ActionExport)
		case entities.ModuleSettings:
			add(entities.PermRoleAdmin, module, entities.ScopeAll,
				entities.ActionRead, entities.ActionUpdate)
		default:
			add(entities.PermRoleAdmin, module, entities.ScopeAll, entities.Actions...)
		}
	}

	// Manager: works their team's records.
	add(entities.PermRoleManager, entities.ModuleClients, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate)
	add(entities.PermRoleManager, entities.ModuleCases, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate, entities.ActionAssign)
	add(entities.PermRoleManager, entities.ModuleTasks, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate, entities.ActionApprove, entities.ActionAssign)
	add(entities.PermRoleManager, entities.ModuleHearings, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate)
	add(entities.PermRoleManager, entities.ModuleDocuments, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate)
	add(entities.PermRoleManager, entities.ModuleNotices, entities.ScopeTeam,
		entities.ActionRead, entities.ActionCreate)
	add(entities.PermRoleManager, entities.ModuleBilling, entities.ScopeTeam,
		entities.ActionRead)
	add(entities.PermRoleManager, entities.ModuleReports, entities.ScopeTeam,
		entities.ActionRead, entities.ActionExport)
	add(entities.PermRoleManager, entities.ModuleEmployees, entities.ScopeTeam,
		entities.ActionRead)

	// Staff: their own records only. Note: no case writes.
	add(entities.PermRoleStaff, entities.ModuleClients, entities.ScopeOwn,
		entities.ActionRead)
	add(entities.PermRoleStaff, entities.ModuleCases, entities.ScopeOwn,
		entities.ActionRead)
	add(entities.PermRoleStaff, entities.ModuleTasks, entities.ScopeOwn,
		entities.ActionRead, entities.ActionCreate, entities.ActionUpdate)
	add(entities.PermRoleStaff, entities.ModuleHearings, entities.ScopeOwn,
		entities.ActionRead)
	add(entities.PermRoleStaff, entities.ModuleDocuments, entities.ScopeOwn,
		entities.ActionRead, entities.ActionCreate)
	add(entities.PermRoleStaff, entities.ModuleNotices, entities.ScopeOwn,
		entities.ActionRead)

	return grants
}

// DefaultPolicy returns a Policy built from DefaultGrants.
func DefaultPolicy() *Policy {
	policy, err := NewPolicy(DefaultGrants())
	if err != nil {
		// DefaultGrants is a compile-time constant table; a validation
		// failure here is a programming error.
		panic(fmt.Sprintf("default grants are invalid: %v", err))
	}
	return policy
}
