package access

import (
	"context"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// mockDirectory implements DirectoryProvider backed by an in-memory
// employee list.
type mockDirectory struct {
	employees []*entities.Employee
	err       error
}

func (m *mockDirectory) GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.employees {
		if e.TenantID == tenantID && e.ID == id {
			return e, nil
		}
	}
	return nil, entities.ErrEmployeeNotFound
}

func (m *mockDirectory) GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	var employees []*entities.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID {
			employees = append(employees, e)
		}
	}
	return entities.NewOrgSnapshot(tenantID, employees), nil
}

// mockPolicies implements PolicyProvider returning a fixed policy.
type mockPolicies struct {
	policy *Policy
	err    error
}

func (m *mockPolicies) GetPolicy(ctx context.Context, tenantID string) (*Policy, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.policy, nil
}

// employee is a shorthand constructor for test fixtures.
func employee(id, tenantID string, role entities.OperationalRole, managerID string, status entities.EmployeeStatus) *entities.Employee {
	return &entities.Employee{
		ID:        id,
		TenantID:  tenantID,
		Name:      "Employee " + id,
		Role:      role,
		ManagerID: managerID,
		Status:    status,
	}
}
