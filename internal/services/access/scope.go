package access

import (
	"context"
	"fmt"
	"sort"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// ScopeResolver computes which employees' records are visible to a
// requester when a grant is scoped to "team". Visibility follows the
// reports-to edges downward from the requester.
type ScopeResolver struct {
	directory DirectoryProvider
}

// NewScopeResolver creates a new ScopeResolver.
func NewScopeResolver(directory DirectoryProvider) *ScopeResolver {
	return &ScopeResolver{directory: directory}
}

// VisibleEmployeeIDs walks the reports-to tree rooted at the requester
// and returns the IDs whose records the requester may see under team
// scope. The requester is always included. Inactive employees are
// excluded from the result, but the walk continues through them so a
// deactivated middle manager does not hide their subtree.
//
// Failure semantics are fail-closed: a requester missing from the
// directory degrades to a self-only set. A manufactured cycle in the
// manager graph is detected via the visited set; the walk aborts and
// returns the self-only set together with entities.ErrCyclicHierarchy
// so callers can alarm without ever widening visibility.
func (r *ScopeResolver) VisibleEmployeeIDs(ctx context.Context, tenantID string, employeeID string) ([]string, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if employeeID == "" {
		return nil, fmt.Errorf("employee ID is required")
	}

	snapshot, err := r.directory.GetSnapshot(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get org snapshot: %w", err)
	}

	if snapshot.Employee(employeeID) == nil {
		// Dangling requester reference: fail closed to self-only.
		return []string{employeeID}, nil
	}

	visited := map[string]bool{employeeID: true}
	queue := []string{employeeID}
	var visible []string

	if snapshot.Employee(employeeID).Active() {
		visible = append(visible, employeeID)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, reportID := range snapshot.DirectReports(current) {
			if visited[reportID] {
				// The manager graph is supposed to be a tree; reaching an
				// already-visited employee means it contains a cycle.
				return []string{employeeID}, fmt.Errorf("traversal aborted at %s: %w", reportID, entities.ErrCyclicHierarchy)
			}
			visited[reportID] = true

			report := snapshot.Employee(reportID)
			if report == nil {
				// Dangling report reference: skip, fail closed.
				continue
			}
			if report.Active() {
				visible = append(visible, reportID)
			}
			queue = append(queue, reportID)
		}
	}

	// Self-only fallback when the requester themselves is inactive and
	// has no active reports.
	if len(visible) == 0 {
		visible = []string{employeeID}
	}

	sort.Strings(visible)
	return visible, nil
}

// VisibleForScope resolves the record-owner IDs visible to the requester
// under the given scope. Scope all yields every active employee in the
// tenant, team yields the requester's subtree, own yields the requester
// alone. ScopeNone (no grant) yields an empty set.
func (r *ScopeResolver) VisibleForScope(ctx context.Context, tenantID string, employeeID string, scope entities.Scope) ([]string, error) {
	switch scope {
	case entities.ScopeAll:
		snapshot, err := r.directory.GetSnapshot(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get org snapshot: %w", err)
		}
		ids := snapshot.ActiveIDs()
		sort.Strings(ids)
		return ids, nil
	case entities.ScopeTeam:
		return r.VisibleEmployeeIDs(ctx, tenantID, employeeID)
	case entities.ScopeOwn:
		return []string{employeeID}, nil
	}
	return nil, nil
}
