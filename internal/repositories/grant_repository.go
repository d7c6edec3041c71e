package repositories

import (
	"context"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// GrantRepository defines the interface for permission grant data access
type GrantRepository interface {
	// List retrieves all grants for a tenant
	List(ctx context.Context, tenantID string) ([]*entities.Grant, error)

	// Replace atomically swaps a tenant's grant set for the given one
	Replace(ctx context.Context, tenantID string, grants []*entities.Grant) error
}
