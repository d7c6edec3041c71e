package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
	"github.com/vakildesk/dwarpal/pkg/cache"
)

// DirectoryServiceInterface defines the interface for employee directory operations
type DirectoryServiceInterface interface {
	GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error)
	GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error)
	ListEmployees(ctx context.Context, tenantID string, filter *repositories.EmployeeFilter) ([]*entities.Employee, error)
	CreateEmployee(ctx context.Context, tenantID string, input *CreateEmployeeInput) (*entities.Employee, error)
	ChangeRole(ctx context.Context, tenantID string, id string, role entities.OperationalRole) error
	ReassignManager(ctx context.Context, tenantID string, id string, managerID string) error
	Deactivate(ctx context.Context, tenantID string, id string) error
}

// DirectoryService handles employee directory operations. Reads are
// served from per-tenant org snapshots, optionally cached; writes
// invalidate the tenant's snapshot so the next read observes them.
type DirectoryService struct {
	employeeRepo repositories.EmployeeRepository
	cache        cache.Cache   // optional snapshot cache
	cacheTTL     time.Duration // TTL for cached snapshots
}

// CreateEmployeeInput carries the caller-supplied fields of a new employee.
type CreateEmployeeInput struct {
	Name      string
	Email     string
	Role      entities.OperationalRole
	ManagerID string // empty for the top-level partner
}

// NewDirectoryService creates a new DirectoryService without caching
func NewDirectoryService(employeeRepo repositories.EmployeeRepository) *DirectoryService {
	return &DirectoryService{employeeRepo: employeeRepo}
}

// NewDirectoryServiceWithCache creates a new DirectoryService with snapshot caching
func NewDirectoryServiceWithCache(employeeRepo repositories.EmployeeRepository, c cache.Cache, cacheTTL time.Duration) *DirectoryService {
	return &DirectoryService{
		employeeRepo: employeeRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

func snapshotCacheKey(tenantID string) string {
	return "org:" + tenantID
}

// GetEmployee retrieves a single employee record
func (s *DirectoryService) GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if id == "" {
		return nil, fmt.Errorf("employee ID is required")
	}
	return s.employeeRepo.GetByID(ctx, tenantID, id)
}

// GetSnapshot builds (or serves from cache) the tenant's org snapshot
func (s *DirectoryService) GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}

	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, snapshotCacheKey(tenantID)); found {
			if snapshot, ok := cached.(*entities.OrgSnapshot); ok {
				return snapshot, nil
			}
		}
	}

	employees, err := s.employeeRepo.List(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	snapshot := entities.NewOrgSnapshot(tenantID, employees)

	if s.cache != nil {
		_ = s.cache.Set(ctx, snapshotCacheKey(tenantID), snapshot, s.cacheTTL)
	}

	return snapshot, nil
}

// ListEmployees retrieves employees matching the filter
func (s *DirectoryService) ListEmployees(ctx context.Context, tenantID string, filter *repositories.EmployeeFilter) ([]*entities.Employee, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	return s.employeeRepo.List(ctx, tenantID, filter)
}

// CreateEmployee creates a new active employee with a generated ID.
// The manager reference, when present, must resolve to an existing
// employee in the same tenant.
func (s *DirectoryService) CreateEmployee(ctx context.Context, tenantID string, input *CreateEmployeeInput) (*entities.Employee, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}

	if input.ManagerID != "" {
		if _, err := s.employeeRepo.GetByID(ctx, tenantID, input.ManagerID); err != nil {
			return nil, fmt.Errorf("manager %s: %w", input.ManagerID, err)
		}
	}

	employee := &entities.Employee{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		ManagerID: input.ManagerID,
		Status:    entities.StatusActive,
	}
	if err := employee.Validate(); err != nil {
		return nil, fmt.Errorf("invalid employee: %w", err)
	}

	if err := s.employeeRepo.Create(ctx, tenantID, employee); err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, tenantID)
	return employee, nil
}

// ChangeRole updates an employee's operational role
func (s *DirectoryService) ChangeRole(ctx context.Context, tenantID string, id string, role entities.OperationalRole) error {
	if err := role.Validate(); err != nil {
		return err
	}

	employee, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	employee.Role = role
	if err := s.employeeRepo.Update(ctx, tenantID, employee); err != nil {
		return err
	}

	s.invalidateSnapshot(ctx, tenantID)
	return nil
}

// ReassignManager moves an employee under a different manager. The new
// manager must exist, and the reassignment is rejected if it would make
// the manager graph cyclic.
func (s *DirectoryService) ReassignManager(ctx context.Context, tenantID string, id string, managerID string) error {
	employee, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if managerID != "" {
		if managerID == id {
			return fmt.Errorf("employee cannot be their own manager")
		}
		if _, err := s.employeeRepo.GetByID(ctx, tenantID, managerID); err != nil {
			return fmt.Errorf("manager %s: %w", managerID, err)
		}
		if err := s.checkNoCycle(ctx, tenantID, id, managerID); err != nil {
			return err
		}
	}

	employee.ManagerID = managerID
	if err := s.employeeRepo.Update(ctx, tenantID, employee); err != nil {
		return err
	}

	s.invalidateSnapshot(ctx, tenantID)
	return nil
}

// checkNoCycle walks up the manager chain from the proposed manager and
// rejects the assignment if it reaches the employee being moved.
func (s *DirectoryService) checkNoCycle(ctx context.Context, tenantID string, employeeID string, managerID string) error {
	snapshot, err := s.GetSnapshot(ctx, tenantID)
	if err != nil {
		return err
	}

	visited := make(map[string]bool)
	current := managerID
	for current != "" {
		if current == employeeID {
			return fmt.Errorf("reassigning %s under %s: %w", employeeID, managerID, entities.ErrCyclicHierarchy)
		}
		if visited[current] {
			// Pre-existing cycle in the chain above the new manager.
			return fmt.Errorf("manager chain of %s: %w", managerID, entities.ErrCyclicHierarchy)
		}
		visited[current] = true

		manager := snapshot.Employee(current)
		if manager == nil {
			break
		}
		current = manager.ManagerID
	}
	return nil
}

// Deactivate sets an employee's status to inactive. Their reports keep
// their manager reference; visibility computations skip inactive
// employees on the next snapshot.
func (s *DirectoryService) Deactivate(ctx context.Context, tenantID string, id string) error {
	if err := s.employeeRepo.SetStatus(ctx, tenantID, id, entities.StatusInactive); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx, tenantID)
	return nil
}

func (s *DirectoryService) invalidateSnapshot(ctx context.Context, tenantID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, snapshotCacheKey(tenantID))
	}
}
