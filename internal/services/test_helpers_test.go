package services

import (
	"context"
	"sync"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
)

// memEmployeeRepo is an in-memory EmployeeRepository for service tests.
type memEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*entities.Employee // key: tenantID + "/" + id
	err       error                         // forced error, returned by every method when set
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: make(map[string]*entities.Employee)}
}

func empKey(tenantID, id string) string {
	return tenantID + "/" + id
}

func (r *memEmployeeRepo) Create(ctx context.Context, tenantID string, employee *entities.Employee) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *employee
	r.employees[empKey(tenantID, employee.ID)] = &clone
	return nil
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[empKey(tenantID, id)]
	if !ok {
		return nil, entities.ErrEmployeeNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memEmployeeRepo) List(ctx context.Context, tenantID string, filter *repositories.EmployeeFilter) ([]*entities.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Employee
	for _, e := range r.employees {
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
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memEmployeeRepo) Update(ctx context.Context, tenantID string, employee *entities.Employee) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := empKey(tenantID, employee.ID)
	if _, ok := r.employees[key]; !ok {
		return entities.ErrEmployeeNotFound
	}
	clone := *employee
	r.employees[key] = &clone
	return nil
}

func (r *memEmployeeRepo) SetStatus(ctx context.Context, tenantID string, id string, status entities.EmployeeStatus) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[empKey(tenantID, id)]
	if !ok {
		return entities.ErrEmployeeNotFound
	}
	e.Status = status
	return nil
}

func (r *memEmployeeRepo) seed(employees ...*entities.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range employees {
		clone := *e
		r.employees[empKey(e.TenantID, e.ID)] = &clone
	}
}

// memGrantRepo is an in-memory GrantRepository for service tests.
type memGrantRepo struct {
	mu     sync.Mutex
	grants map[string][]*entities.Grant // key: tenantID
	err    error
}

func newMemGrantRepo() *memGrantRepo {
	return &memGrantRepo{grants: make(map[string][]*entities.Grant)}
}

func (r *memGrantRepo) List(ctx context.Context, tenantID string) ([]*entities.Grant, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Grant, 0, len(r.grants[tenantID]))
	for _, g := range r.grants[tenantID] {
		clone := *g
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memGrantRepo) Replace(ctx context.Context, tenantID string, grants []*entities.Grant) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	replaced := make([]*entities.Grant, 0, len(grants))
	for _, g := range grants {
		clone := *g
		replaced = append(replaced, &clone)
	}
	r.grants[tenantID] = replaced
	return nil
}

func testEmployee(id, tenantID string, role entities.OperationalRole, managerID string, status entities.EmployeeStatus) *entities.Employee {
	return &entities.Employee{
		ID:        id,
		TenantID:  tenantID,
		Name:      "Employee " + id,
		Role:      role,
		ManagerID: managerID,
		Status:    status,
	}
}
