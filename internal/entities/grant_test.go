package entities

import "testing"

func TestGrant_Validate(t *testing.T) {
	tests := []struct {
		name    string
		grant   Grant
		wantErr bool
	}{
		{
			name:  "valid grant",
			grant: Grant{Role: PermRoleManager, Module: ModuleCases, Action: ActionUpdate, Scope: ScopeTeam},
		},
		{
			name:    "unknown role",
			grant:   Grant{Role: "root", Module: ModuleCases, Action: ActionUpdate, Scope: ScopeTeam},
			wantErr: true,
		},
		{
			name:    "unknown module",
			grant:   Grant{Role: PermRoleManager, Module: "invoices", Action: ActionUpdate, Scope: ScopeTeam},
			wantErr: true,
		},
		{
			name:    "unknown action",
			grant:   Grant{Role: PermRoleManager, Module: ModuleCases, Action: "archive", Scope: ScopeTeam},
			wantErr: true,
		},
		{
			name:    "missing scope",
			grant:   Grant{Role: PermRoleManager, Module: ModuleCases, Action: ActionUpdate},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grant.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGrant_String(t *testing.T) {
	g := &Grant{Role: PermRoleStaff, Module: ModuleTasks, Action: ActionRead, Scope: ScopeOwn}
	want := "staff:tasks/read@own"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestScope_Wider(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Scope
		wider bool
	}{
		{name: "all wider than team", a: ScopeAll, b: ScopeTeam, wider: true},
		{name: "team wider than own", a: ScopeTeam, b: ScopeOwn, wider: true},
		{name: "own wider than none", a: ScopeOwn, b: ScopeNone, wider: true},
		{name: "own not wider than all", a: ScopeOwn, b: ScopeAll, wider: false},
		{name: "equal scopes", a: ScopeTeam, b: ScopeTeam, wider: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Wider(tt.b); got != tt.wider {
				t.Errorf("%v.Wider(%v) = %v, want %v", tt.a, tt.b, got, tt.wider)
			}
		})
	}
}

func TestParseModule(t *testing.T) {
	for _, m := range Modules {
		got, err := ParseModule(string(m))
		if err != nil {
			t.Errorf("ParseModule(%q) unexpected error: %v", m, err)
		}
		if got != m {
			t.Errorf("ParseModule(%q) = %v, want %v", m, got, m)
		}
	}

	if _, err := ParseModule("payroll"); err == nil {
		t.Error("ParseModule should reject unknown module")
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(string(a))
		if err != nil {
			t.Errorf("ParseAction(%q) unexpected error: %v", a, err)
		}
		if got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", a, got, a)
		}
	}

	if _, err := ParseAction("write"); err == nil {
		t.Error("ParseAction should reject unknown action")
	}
}
