package entities

// OrgSnapshot is an immutable view of a tenant's employee directory,
// indexed for permission evaluation. It is built once per request (or
// served from cache) and never mutated afterwards; staleness is resolved
// by the caller's normal refresh cycle.
type OrgSnapshot struct {
	tenantID  string
	employees map[string]*Employee
	reports   map[string][]string // manager ID -> direct report IDs
}

// NewOrgSnapshot builds a snapshot from a list of employee records.
func NewOrgSnapshot(tenantID string, employees []*Employee) *OrgSnapshot {
	s := &OrgSnapshot{
		tenantID:  tenantID,
		employees: make(map[string]*Employee, len(employees)),
		reports:   make(map[string][]string),
	}
	for _, e := range employees {
		s.employees[e.ID] = e
		if e.ManagerID != "" {
			s.reports[e.ManagerID] = append(s.reports[e.ManagerID], e.ID)
		}
	}
	return s
}

// TenantID returns the tenant this snapshot belongs to.
func (s *OrgSnapshot) TenantID() string {
	return s.tenantID
}

// Employee returns the employee with the given ID, or nil if absent.
func (s *OrgSnapshot) Employee(id string) *Employee {
	return s.employees[id]
}

// DirectReports returns the IDs of employees whose manager is the given ID.
func (s *OrgSnapshot) DirectReports(id string) []string {
	return s.reports[id]
}

// ActiveIDs returns the IDs of all active employees in the tenant.
func (s *OrgSnapshot) ActiveIDs() []string {
	ids := make([]string, 0, len(s.employees))
	for id, e := range s.employees {
		if e.Active() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Size returns the number of employees in the snapshot.
func (s *OrgSnapshot) Size() int {
	return len(s.employees)
}
