package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
)

// PostgresGrantRepository implements GrantRepository using PostgreSQL
type PostgresGrantRepository struct {
	db *sql.DB
}

// NewPostgresGrantRepository creates a new PostgreSQL grant repository
func NewPostgresGrantRepository(db *sql.DB) repositories.GrantRepository {
	return &PostgresGrantRepository{db: db}
}

// List retrieves all grants for a tenant
func (r *PostgresGrantRepository) List(ctx context.Context, tenantID string) ([]*entities.Grant, error) {
	query := `
		SELECT role, module, action, scope
		FROM role_grants
		WHERE tenant_id = $1
		ORDER BY role, module, action
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []*entities.Grant
	for rows.Next() {
		var g entities.Grant
		if err := rows.Scan((*string)(&g.Role), (*string)(&g.Module), (*string)(&g.Action), (*string)(&g.Scope)); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grants: %w", err)
	}

	return grants, nil
}

// Replace atomically swaps a tenant's grant set for the given one
func (r *PostgresGrantRepository) Replace(ctx context.Context, tenantID string, grants []*entities.Grant) error {
	for i, g := range grants {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("invalid grant at index %d: %w", i, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM role_grants WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("failed to clear grants: %w", err)
	}

	query := `
		INSERT INTO role_grants (tenant_id, role, module, action, scope, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, role, module, action) DO UPDATE SET scope = EXCLUDED.scope
	`
	now := time.Now()
	for _, g := range grants {
		_, err := tx.ExecContext(ctx, query,
			tenantID, string(g.Role), string(g.Module), string(g.Action), string(g.Scope), now,
		)
		if err != nil {
			return fmt.Errorf("failed to write grant %s: %w", g, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
