package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/infrastructure/metrics"
	"github.com/vakildesk/dwarpal/internal/repositories"
	"github.com/vakildesk/dwarpal/internal/services"
	"github.com/vakildesk/dwarpal/internal/services/access"
)

// mockChecker returns canned decisions keyed by module/action.
type mockChecker struct {
	decisions map[string]access.CheckResponse
	modules   map[entities.Module]bool
	err       error
}

func decisionKey(module entities.Module, action entities.Action) string {
	return string(module) + "/" + string(action)
}

func (m *mockChecker) Check(ctx context.Context, req *access.CheckRequest) (*access.CheckResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	resp, ok := m.decisions[decisionKey(req.Module, req.Action)]
	if !ok {
		return &access.CheckResponse{Allowed: false}, nil
	}
	return &resp, nil
}

func (m *mockChecker) CheckMultiple(ctx context.Context, req *access.CheckRequest, actions []entities.Action) (map[entities.Action]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[entities.Action]bool, len(actions))
	for _, action := range actions {
		resp, ok := m.decisions[decisionKey(req.Module, action)]
		out[action] = ok && resp.Allowed
	}
	return out, nil
}

func (m *mockChecker) VisibleModules(ctx context.Context, tenantID string, subjectID string) (map[entities.Module]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

// mockDirectoryProvider backs the scope resolver in handler tests.
type mockDirectoryProvider struct {
	employees []*entities.Employee
}

func (m *mockDirectoryProvider) GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	for _, e := range m.employees {
		if e.TenantID == tenantID && e.ID == id {
			return e, nil
		}
	}
	return nil, entities.ErrEmployeeNotFound
}

func (m *mockDirectoryProvider) GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error) {
	var scoped []*entities.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID {
			scoped = append(scoped, e)
		}
	}
	return entities.NewOrgSnapshot(tenantID, scoped), nil
}

// mockDirectoryService stands in for the employee lifecycle service.
type mockDirectoryService struct {
	employees map[string]*entities.Employee
	created   []*services.CreateEmployeeInput
	err       error
}

func newMockDirectoryService(employees ...*entities.Employee) *mockDirectoryService {
	m := &mockDirectoryService{employees: make(map[string]*entities.Employee)}
	for _, e := range employees {
		m.employees[e.ID] = e
	}
	return m
}

func (m *mockDirectoryService) GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.employees[id]
	if !ok || e.TenantID != tenantID {
		return nil, entities.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *mockDirectoryService) GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error) {
	var scoped []*entities.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID {
			scoped = append(scoped, e)
		}
	}
	return entities.NewOrgSnapshot(tenantID, scoped), nil
}

func (m *mockDirectoryService) ListEmployees(ctx context.Context, tenantID string, filter *repositories.EmployeeFilter) ([]*entities.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*entities.Employee
	for _, e := range m.employees {
		if e.TenantID != tenantID {
			continue
		}
		if filter != nil {
			if filter.Role != "" && e.Role != filter.Role {
				continue
			}
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if filter.ManagerID != "" && e.ManagerID != filter.ManagerID {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockDirectoryService) CreateEmployee(ctx context.Context, tenantID string, input *services.CreateEmployeeInput) (*entities.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, input)
	now := time.Now()
	e := &entities.Employee{
		ID:        "emp-new",
		TenantID:  tenantID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		ManagerID: input.ManagerID,
		Status:    entities.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.employees[e.ID] = e
	return e, nil
}

func (m *mockDirectoryService) ChangeRole(ctx context.Context, tenantID string, id string, role entities.OperationalRole) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.employees[id]
	if !ok || e.TenantID != tenantID {
		return entities.ErrEmployeeNotFound
	}
	e.Role = role
	return nil
}

func (m *mockDirectoryService) ReassignManager(ctx context.Context, tenantID string, id string, managerID string) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.employees[id]
	if !ok || e.TenantID != tenantID {
		return entities.ErrEmployeeNotFound
	}
	e.ManagerID = managerID
	return nil
}

func (m *mockDirectoryService) Deactivate(ctx context.Context, tenantID string, id string) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.employees[id]
	if !ok || e.TenantID != tenantID {
		return entities.ErrEmployeeNotFound
	}
	e.Status = entities.StatusInactive
	return nil
}

// mockPolicyService stands in for grant administration.
type mockPolicyService struct {
	grants   []*entities.Grant
	replaced []*entities.Grant
	err      error
}

func (m *mockPolicyService) GetPolicy(ctx context.Context, tenantID string) (*access.Policy, error) {
	if m.err != nil {
		return nil, m.err
	}
	return access.NewPolicy(m.grants)
}

func (m *mockPolicyService) ListGrants(ctx context.Context, tenantID string) ([]*entities.Grant, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.grants, nil
}

func (m *mockPolicyService) ReplaceGrants(ctx context.Context, tenantID string, grants []*entities.Grant) error {
	if m.err != nil {
		return m.err
	}
	m.replaced = grants
	return nil
}

// newTestRouter wires a full router around the given mocks.
func newTestRouter(
	checker access.CheckerInterface,
	provider access.DirectoryProvider,
	directory services.DirectoryServiceInterface,
	policies services.PolicyServiceInterface,
) http.Handler {
	collector := metrics.NewCollector()
	return NewRouter(
		NewAccessHandler(checker, access.NewScopeResolver(provider), collector, nil),
		NewDirectoryHandler(directory),
		NewPolicyHandler(policies),
		collector,
		nil,
		func() error { return nil },
	)
}

func testEmployee(id, tenant string, role entities.OperationalRole, managerID string) *entities.Employee {
	now := time.Now()
	return &entities.Employee{
		ID:        id,
		TenantID:  tenant,
		Name:      "Employee " + id,
		Email:     id + "@example.com",
		Role:      role,
		ManagerID: managerID,
		Status:    entities.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
