package entities

import "testing"

func TestEmployee_Validate(t *testing.T) {
	valid := Employee{
		ID:       "emp-001",
		TenantID: "tenant-1",
		Name:     "Asha Verma",
		Role:     RoleCA,
		Status:   StatusActive,
	}

	tests := []struct {
		name    string
		mutate  func(e *Employee)
		wantErr bool
	}{
		{name: "valid employee", mutate: func(e *Employee) {}},
		{name: "missing ID", mutate: func(e *Employee) { e.ID = "" }, wantErr: true},
		{name: "missing tenant", mutate: func(e *Employee) { e.TenantID = "" }, wantErr: true},
		{name: "missing name", mutate: func(e *Employee) { e.Name = "" }, wantErr: true},
		{name: "unknown role", mutate: func(e *Employee) { e.Role = "paralegal" }, wantErr: true},
		{name: "unknown status", mutate: func(e *Employee) { e.Status = "suspended" }, wantErr: true},
		{name: "self managed", mutate: func(e *Employee) { e.ManagerID = e.ID }, wantErr: true},
		{name: "manager reference allowed", mutate: func(e *Employee) { e.ManagerID = "emp-000" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmployee_Active(t *testing.T) {
	e := Employee{Status: StatusActive}
	if !e.Active() {
		t.Error("expected active employee to report Active() = true")
	}
	e.Status = StatusInactive
	if e.Active() {
		t.Error("expected inactive employee to report Active() = false")
	}
}
