package access

import (
	"testing"

	"github.com/vakildesk/dwarpal/internal/entities"
)

func TestNewPolicy_RejectsInvalidGrant(t *testing.T) {
	_, err := NewPolicy([]*entities.Grant{
		{Role: "root", Module: entities.ModuleCases, Action: entities.ActionRead, Scope: entities.ScopeAll},
	})
	if err == nil {
		t.Error("NewPolicy should reject a grant with an unknown role")
	}
}

func TestNewPolicy_WidestScopeWinsOnDuplicate(t *testing.T) {
	policy, err := NewPolicy([]*entities.Grant{
		{Role: entities.PermRoleManager, Module: entities.ModuleCases, Action: entities.ActionRead, Scope: entities.ScopeOwn},
		{Role: entities.PermRoleManager, Module: entities.ModuleCases, Action: entities.ActionRead, Scope: entities.ScopeAll},
		{Role: entities.PermRoleManager, Module: entities.ModuleCases, Action: entities.ActionRead, Scope: entities.ScopeTeam},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scope := policy.ScopeFor([]entities.PermissionRole{entities.PermRoleManager}, entities.ModuleCases, entities.ActionRead)
	if scope != entities.ScopeAll {
		t.Errorf("ScopeFor() = %v, want %v", scope, entities.ScopeAll)
	}
}

func TestPolicy_ScopeFor_UnionAcrossRoles(t *testing.T) {
	policy, err := NewPolicy([]*entities.Grant{
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeOwn},
		{Role: entities.PermRoleManager, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeTeam},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		roles []entities.PermissionRole
		want  entities.Scope
	}{
		{
			name:  "single role",
			roles: []entities.PermissionRole{entities.PermRoleStaff},
			want:  entities.ScopeOwn,
		},
		{
			name:  "both roles - widest wins",
			roles: []entities.PermissionRole{entities.PermRoleStaff, entities.PermRoleManager},
			want:  entities.ScopeTeam,
		},
		{
			name:  "role without grant",
			roles: []entities.PermissionRole{entities.PermRoleAdmin},
			want:  entities.ScopeNone,
		},
		{
			name:  "no roles",
			roles: nil,
			want:  entities.ScopeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.ScopeFor(tt.roles, entities.ModuleTasks, entities.ActionRead)
			if got != tt.want {
				t.Errorf("ScopeFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicy_DefaultDeny(t *testing.T) {
	policy := DefaultPolicy()

	// Actions never granted to staff must deny.
	staff := []entities.PermissionRole{entities.PermRoleStaff}
	denied := []struct {
		module entities.Module
		action entities.Action
	}{
		{entities.ModuleCases, entities.ActionUpdate},
		{entities.ModuleCases, entities.ActionDelete},
		{entities.ModuleBilling, entities.ActionRead},
		{entities.ModuleEmployees, entities.ActionRead},
		{entities.ModuleSettings, entities.ActionUpdate},
		{entities.ModuleReports, entities.ActionExport},
	}

	for _, d := range denied {
		if policy.Allows(staff, d.module, d.action) {
			t.Errorf("staff should be denied %s/%s", d.module, d.action)
		}
	}
}

func TestPolicy_SuperAdminFullMatrix(t *testing.T) {
	policy := DefaultPolicy()
	superadmin := []entities.PermissionRole{entities.PermRoleSuperAdmin}

	for _, module := range entities.Modules {
		for _, action := range entities.Actions {
			scope := policy.ScopeFor(superadmin, module, action)
			if scope != entities.ScopeAll {
				t.Errorf("superadmin %s/%s = %v, want %v", module, action, scope, entities.ScopeAll)
			}
		}
	}
}

func TestPolicy_AdminRestrictions(t *testing.T) {
	policy := DefaultPolicy()
	admin := []entities.PermissionRole{entities.PermRoleAdmin}

	// Billing approval and settings administration stay with partners.
	if policy.Allows(admin, entities.ModuleBilling, entities.ActionApprove) {
		t.Error("admin should be denied billing/approve")
	}
	if policy.Allows(admin, entities.ModuleSettings, entities.ActionDelete) {
		t.Error("admin should be denied settings/delete")
	}
	if !policy.Allows(admin, entities.ModuleSettings, entities.ActionRead) {
		t.Error("admin should be allowed settings/read")
	}
	if !policy.Allows(admin, entities.ModuleCases, entities.ActionDelete) {
		t.Error("admin should be allowed cases/delete")
	}
}

func TestPolicy_GrantsRoundTrip(t *testing.T) {
	original := DefaultGrants()
	policy, err := NewPolicy(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rebuilt, err := NewPolicy(policy.Grants())
	if err != nil {
		t.Fatalf("unexpected error rebuilding policy: %v", err)
	}

	if rebuilt.Size() != policy.Size() {
		t.Errorf("rebuilt policy has %d cells, want %d", rebuilt.Size(), policy.Size())
	}
}
