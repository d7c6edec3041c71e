package postgres

import (
	"context"
	"testing"

	"github.com/vakildesk/dwarpal/internal/entities"
)

func TestPostgresGrantRepository_ReplaceAndList(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresGrantRepository(db)
	ctx := context.Background()

	grants := []*entities.Grant{
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeOwn},
		{Role: entities.PermRoleManager, Module: entities.ModuleCases, Action: entities.ActionUpdate, Scope: entities.ScopeTeam},
	}
	if err := repo.Replace(ctx, "tenant-1", grants); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := repo.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d grants, want 2", len(got))
	}
	// List orders by role, module, action.
	if got[0].Role != entities.PermRoleManager || got[0].Scope != entities.ScopeTeam {
		t.Errorf("unexpected first grant: %+v", got[0])
	}
}

func TestPostgresGrantRepository_Replace_Swaps(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresGrantRepository(db)
	ctx := context.Background()

	first := []*entities.Grant{
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeOwn},
	}
	if err := repo.Replace(ctx, "tenant-1", first); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	second := []*entities.Grant{
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeTeam},
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionCreate, Scope: entities.ScopeOwn},
	}
	if err := repo.Replace(ctx, "tenant-1", second); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := repo.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d grants, want 2", len(got))
	}
	for _, g := range got {
		if g.Action == entities.ActionRead && g.Scope != entities.ScopeTeam {
			t.Errorf("read grant scope = %s, want team after replace", g.Scope)
		}
	}
}

func TestPostgresGrantRepository_Replace_RejectsInvalid(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresGrantRepository(db)

	bad := []*entities.Grant{
		{Role: "owner", Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeOwn},
	}
	if err := repo.Replace(context.Background(), "tenant-1", bad); err == nil {
		t.Error("Replace should reject an unknown role")
	}
}

func TestPostgresGrantRepository_List_TenantIsolation(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresGrantRepository(db)
	ctx := context.Background()

	grants := []*entities.Grant{
		{Role: entities.PermRoleStaff, Module: entities.ModuleTasks, Action: entities.ActionRead, Scope: entities.ScopeOwn},
	}
	if err := repo.Replace(ctx, "tenant-1", grants); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := repo.List(ctx, "tenant-2")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tenant-2 should have no grants, got %d", len(got))
	}
}
