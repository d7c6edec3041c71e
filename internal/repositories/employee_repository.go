package repositories

import (
	"context"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// EmployeeFilter defines filter criteria for querying employees
type EmployeeFilter struct {
	Role      entities.OperationalRole // Filter by operational role (optional)
	Status    entities.EmployeeStatus  // Filter by status (optional)
	ManagerID string                   // Filter by direct manager (optional)
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create inserts a new employee record
	Create(ctx context.Context, tenantID string, employee *entities.Employee) error

	// GetByID retrieves an employee by ID.
	// Returns entities.ErrEmployeeNotFound if no record exists.
	GetByID(ctx context.Context, tenantID string, id string) (*entities.Employee, error)

	// List retrieves employees matching the filter
	List(ctx context.Context, tenantID string, filter *EmployeeFilter) ([]*entities.Employee, error)

	// Update persists changes to an existing employee record
	Update(ctx context.Context, tenantID string, employee *entities.Employee) error

	// SetStatus changes the lifecycle status of an employee
	SetStatus(ctx context.Context, tenantID string, id string, status entities.EmployeeStatus) error
}
