package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
)

// PostgresEmployeeRepository implements EmployeeRepository using PostgreSQL
type PostgresEmployeeRepository struct {
	db *sql.DB
}

// NewPostgresEmployeeRepository creates a new PostgreSQL employee repository
func NewPostgresEmployeeRepository(db *sql.DB) repositories.EmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

// Create inserts a new employee record
func (r *PostgresEmployeeRepository) Create(ctx context.Context, tenantID string, employee *entities.Employee) error {
	if err := employee.Validate(); err != nil {
		return fmt.Errorf("invalid employee: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, tenant_id, name, email, role, manager_id, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		employee.ID, tenantID, employee.Name, employee.Email,
		string(employee.Role), nullString(employee.ManagerID), string(employee.Status), now,
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, tenantID string, id string) (*entities.Employee, error) {
	query := `
		SELECT id, tenant_id, name, email, role, manager_id, status, created_at, updated_at
		FROM employees
		WHERE tenant_id = $1 AND id = $2
	`
	row := r.db.QueryRowContext(ctx, query, tenantID, id)

	employee, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, entities.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee, nil
}

// List retrieves employees matching the filter
func (r *PostgresEmployeeRepository) List(ctx context.Context, tenantID string, filter *repositories.EmployeeFilter) ([]*entities.Employee, error) {
	query := `
		SELECT id, tenant_id, name, email, role, manager_id, status, created_at, updated_at
		FROM employees
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}

	if filter != nil {
		if filter.Role != "" {
			args = append(args, string(filter.Role))
			query += fmt.Sprintf(" AND role = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, string(filter.Status))
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filter.ManagerID != "" {
			args = append(args, filter.ManagerID)
			query += fmt.Sprintf(" AND manager_id = $%d", len(args))
		}
	}

	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*entities.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// Update persists changes to an existing employee record
func (r *PostgresEmployeeRepository) Update(ctx context.Context, tenantID string, employee *entities.Employee) error {
	if err := employee.Validate(); err != nil {
		return fmt.Errorf("invalid employee: %w", err)
	}

	query := `
		UPDATE employees
		SET name = $3, email = $4, role = $5, manager_id = $6, status = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		tenantID, employee.ID, employee.Name, employee.Email,
		string(employee.Role), nullString(employee.ManagerID), string(employee.Status), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrEmployeeNotFound
	}

	return nil
}

// SetStatus changes the lifecycle status of an employee
func (r *PostgresEmployeeRepository) SetStatus(ctx context.Context, tenantID string, id string, status entities.EmployeeStatus) error {
	if err := status.Validate(); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	query := `
		UPDATE employees
		SET status = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query, tenantID, id, string(status), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set employee status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrEmployeeNotFound
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanEmployee
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(s scanner) (*entities.Employee, error) {
	var e entities.Employee
	var managerID sql.NullString

	err := s.Scan(
		&e.ID, &e.TenantID, &e.Name, &e.Email,
		(*string)(&e.Role), &managerID, (*string)(&e.Status),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if managerID.Valid {
		e.ManagerID = managerID.String
	}

	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
