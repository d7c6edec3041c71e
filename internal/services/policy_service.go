package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
	"github.com/vakildesk/dwarpal/internal/services/access"
	"github.com/vakildesk/dwarpal/pkg/cache"
)

// PolicyServiceInterface defines the interface for grant table management
type PolicyServiceInterface interface {
	GetPolicy(ctx context.Context, tenantID string) (*access.Policy, error)
	ListGrants(ctx context.Context, tenantID string) ([]*entities.Grant, error)
	ReplaceGrants(ctx context.Context, tenantID string, grants []*entities.Grant) error
}

// PolicyService loads a tenant's grant rows into an immutable Policy.
// A tenant with no customized grant rows evaluates against the stock
// grant matrix, so a freshly provisioned tenant is usable before any
// administration happens.
type PolicyService struct {
	grantRepo repositories.GrantRepository
	cache     cache.Cache   // optional policy cache
	cacheTTL  time.Duration // TTL for cached policies
}

// NewPolicyService creates a new PolicyService without caching
func NewPolicyService(grantRepo repositories.GrantRepository) *PolicyService {
	return &PolicyService{grantRepo: grantRepo}
}

// NewPolicyServiceWithCache creates a new PolicyService with policy caching
func NewPolicyServiceWithCache(grantRepo repositories.GrantRepository, c cache.Cache, cacheTTL time.Duration) *PolicyService {
	return &PolicyService{
		grantRepo: grantRepo,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func policyCacheKey(tenantID string) string {
	return "policy:" + tenantID
}

// GetPolicy returns the tenant's grant table as an immutable Policy
func (s *PolicyService) GetPolicy(ctx context.Context, tenantID string) (*access.Policy, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}

	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, policyCacheKey(tenantID)); found {
			if policy, ok := cached.(*access.Policy); ok {
				return policy, nil
			}
		}
	}

	grants, err := s.grantRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	var policy *access.Policy
	if len(grants) == 0 {
		policy = access.DefaultPolicy()
	} else {
		policy, err = access.NewPolicy(grants)
		if err != nil {
			return nil, fmt.Errorf("failed to build policy: %w", err)
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, policyCacheKey(tenantID), policy, s.cacheTTL)
	}

	return policy, nil
}

// ListGrants returns the tenant's effective grant cells
func (s *PolicyService) ListGrants(ctx context.Context, tenantID string) ([]*entities.Grant, error) {
	policy, err := s.GetPolicy(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return policy.Grants(), nil
}

// ReplaceGrants swaps the tenant's grant set. Grants are validated by
// building a Policy before anything is written, so a malformed set never
// reaches storage.
func (s *PolicyService) ReplaceGrants(ctx context.Context, tenantID string, grants []*entities.Grant) error {
	if tenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	if len(grants) == 0 {
		return fmt.Errorf("at least one grant is required")
	}

	if _, err := access.NewPolicy(grants); err != nil {
		return err
	}

	if err := s.grantRepo.Replace(ctx, tenantID, grants); err != nil {
		return fmt.Errorf("failed to replace grants: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, policyCacheKey(tenantID))
	}

	return nil
}
