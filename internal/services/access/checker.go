package access

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/pkg/cache"
)

// DirectoryProvider defines the directory operations the access layer
// needs. It is declared here to avoid a circular dependency on the
// services package.
type DirectoryProvider interface {
	GetEmployee(ctx context.Context, tenantID string, id string) (*entities.Employee, error)
	GetSnapshot(ctx context.Context, tenantID string) (*entities.OrgSnapshot, error)
}

// PolicyProvider supplies the tenant's grant table.
type PolicyProvider interface {
	GetPolicy(ctx context.Context, tenantID string) (*Policy, error)
}

// CheckerInterface defines the interface for permission checking
type CheckerInterface interface {
	Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error)
	CheckMultiple(ctx context.Context, req *CheckRequest, actions []entities.Action) (map[entities.Action]bool, error)
	VisibleModules(ctx context.Context, tenantID string, subjectID string) (map[entities.Module]bool, error)
}

// Checker decides whether an employee may perform an action on a module.
// Evaluation is a pure read over the tenant's policy and directory
// snapshot: no state is mutated, and repeated evaluation with unchanged
// inputs yields the same result.
type Checker struct {
	directory DirectoryProvider
	policies  PolicyProvider
	mapper    *RoleMapper
	cache     cache.Cache   // optional cache for check results
	cacheTTL  time.Duration // TTL for cached results
}

// CheckRequest contains the parameters for a permission check
type CheckRequest struct {
	TenantID  string          // Tenant ID
	SubjectID string          // Employee performing the action
	Module    entities.Module // Application module (e.g. "cases")
	Action    entities.Action // Operation (e.g. "update")
}

// CheckResponse contains the result of a permission check
type CheckResponse struct {
	Allowed bool           // Whether the subject may perform the action
	Scope   entities.Scope // Record scope of the grant; empty when denied
}

// NewChecker creates a new Checker without caching
func NewChecker(directory DirectoryProvider, policies PolicyProvider, mapper *RoleMapper) *Checker {
	return &Checker{
		directory: directory,
		policies:  policies,
		mapper:    mapper,
	}
}

// NewCheckerWithCache creates a new Checker with caching enabled
func NewCheckerWithCache(
	directory DirectoryProvider,
	policies PolicyProvider,
	mapper *RoleMapper,
	c cache.Cache,
	cacheTTL time.Duration,
) *Checker {
	return &Checker{
		directory: directory,
		policies:  policies,
		mapper:    mapper,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// generateCacheKey generates a cache key for the check request
func (c *Checker) generateCacheKey(req *CheckRequest) string {
	keyData := fmt.Sprintf("%s:%s:%s:%s", req.TenantID, req.SubjectID, req.Module, req.Action)
	hash := sha256.Sum256([]byte(keyData))
	return hex.EncodeToString(hash[:])
}

// Check performs a permission check.
// Every failure mode short of an infrastructure error resolves to a
// denial rather than an error: unknown subject, inactive subject,
// unmapped operational role, and missing grant all deny.
func (c *Checker) Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid check request: %w", err)
	}

	var cacheKey string
	if c.cache != nil {
		cacheKey = c.generateCacheKey(req)
		if cached, found := c.cache.Get(ctx, cacheKey); found {
			if resp, ok := cached.(*CheckResponse); ok {
				return resp, nil
			}
		}
	}

	resp, err := c.evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, resp, c.cacheTTL)
	}

	return resp, nil
}

func (c *Checker) evaluate(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	deny := &CheckResponse{Allowed: false, Scope: entities.ScopeNone}

	employee, err := c.directory.GetEmployee(ctx, req.TenantID, req.SubjectID)
	if err != nil {
		if errors.Is(err, entities.ErrEmployeeNotFound) {
			return deny, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	if !employee.Active() {
		return deny, nil
	}

	permRoles := c.mapper.RolesFor(employee.Role)
	if len(permRoles) == 0 {
		return deny, nil
	}

	policy, err := c.policies.GetPolicy(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	scope := policy.ScopeFor(permRoles, req.Module, req.Action)
	if scope == entities.ScopeNone {
		return deny, nil
	}

	return &CheckResponse{Allowed: true, Scope: scope}, nil
}

// validateRequest validates the check request
func (c *Checker) validateRequest(req *CheckRequest) error {
	if req.TenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	if req.SubjectID == "" {
		return fmt.Errorf("subject ID is required")
	}
	if err := req.Module.Validate(); err != nil {
		return err
	}
	if err := req.Action.Validate(); err != nil {
		return err
	}
	return nil
}

// CheckMultiple evaluates several actions on the same module in one call.
// Returns a map of action to whether it is allowed. Individual failures
// are reported as denials.
func (c *Checker) CheckMultiple(ctx context.Context, req *CheckRequest, actions []entities.Action) (map[entities.Action]bool, error) {
	results := make(map[entities.Action]bool, len(actions))

	for _, action := range actions {
		checkReq := &CheckRequest{
			TenantID:  req.TenantID,
			SubjectID: req.SubjectID,
			Module:    req.Module,
			Action:    action,
		}

		resp, err := c.Check(ctx, checkReq)
		if err != nil {
			results[action] = false
			continue
		}
		results[action] = resp.Allowed
	}

	return results, nil
}

// VisibleModules returns, for every enumerated module, whether the
// subject holds read permission on it. This is what a UI route guard
// consumes to decide which views to offer.
func (c *Checker) VisibleModules(ctx context.Context, tenantID string, subjectID string) (map[entities.Module]bool, error) {
	results := make(map[entities.Module]bool, len(entities.Modules))

	for _, module := range entities.Modules {
		resp, err := c.Check(ctx, &CheckRequest{
			TenantID:  tenantID,
			SubjectID: subjectID,
			Module:    module,
			Action:    entities.ActionRead,
		})
		if err != nil {
			results[module] = false
			continue
		}
		results[module] = resp.Allowed
	}

	return results, nil
}
