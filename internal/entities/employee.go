package entities

import (
	"fmt"
	"time"
)

// EmployeeStatus is the lifecycle state of an employee record.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// ParseEmployeeStatus converts a string to an EmployeeStatus.
func ParseEmployeeStatus(s string) (EmployeeStatus, error) {
	st := EmployeeStatus(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate checks that the status is one of the enumerated statuses.
func (s EmployeeStatus) Validate() error {
	switch s {
	case StatusActive, StatusInactive:
		return nil
	}
	return fmt.Errorf("unknown employee status: %q", string(s))
}

// String returns the status identifier.
func (s EmployeeStatus) String() string {
	return string(s)
}

// Employee represents a member of a tenant organization.
// ManagerID is a self-reference forming the reports-to tree; it is empty
// for the top-level partner.
type Employee struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Role      OperationalRole
	ManagerID string // empty for the root of the hierarchy
	Status    EmployeeStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the employee is currently active.
func (e *Employee) Active() bool {
	return e.Status == StatusActive
}

// Validate checks if the employee record is valid.
func (e *Employee) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("employee ID is required")
	}
	if e.TenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	if e.Name == "" {
		return fmt.Errorf("employee name is required")
	}
	if err := e.Role.Validate(); err != nil {
		return fmt.Errorf("invalid employee role: %w", err)
	}
	if err := e.Status.Validate(); err != nil {
		return fmt.Errorf("invalid employee status: %w", err)
	}
	if e.ManagerID == e.ID {
		return fmt.Errorf("employee cannot be their own manager")
	}
	return nil
}
