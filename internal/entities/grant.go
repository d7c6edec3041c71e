package entities

import "fmt"

// Module identifies an application area that permissions are granted on.
type Module string

const (
	ModuleClients   Module = "clients"
	ModuleCases     Module = "cases"
	ModuleTasks     Module = "tasks"
	ModuleHearings  Module = "hearings"
	ModuleDocuments Module = "documents"
	ModuleNotices   Module = "notices"
	ModuleBilling   Module = "billing"
	ModuleReports   Module = "reports"
	ModuleEmployees Module = "employees"
	ModuleSettings  Module = "settings"
)

// Modules lists every recognized module.
var Modules = []Module{
	ModuleClients,
	ModuleCases,
	ModuleTasks,
	ModuleHearings,
	ModuleDocuments,
	ModuleNotices,
	ModuleBilling,
	ModuleReports,
	ModuleEmployees,
	ModuleSettings,
}

// ParseModule converts a string to a Module.
func ParseModule(s string) (Module, error) {
	m := Module(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate checks that the module is one of the enumerated modules.
func (m Module) Validate() error {
	switch m {
	case ModuleClients, ModuleCases, ModuleTasks, ModuleHearings, ModuleDocuments,
		ModuleNotices, ModuleBilling, ModuleReports, ModuleEmployees, ModuleSettings:
		return nil
	}
	return fmt.Errorf("unknown module: %q", string(m))
}

// String returns the module identifier.
func (m Module) String() string {
	return string(m)
}

// Action identifies an operation performed on a module.
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
	ActionAssign  Action = "assign"
)

// Actions lists every recognized action.
var Actions = []Action{
	ActionRead,
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionApprove,
	ActionExport,
	ActionAssign,
}

// ParseAction converts a string to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Validate checks that the action is one of the enumerated actions.
func (a Action) Validate() error {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionExport, ActionAssign:
		return nil
	}
	return fmt.Errorf("unknown action: %q", string(a))
}

// String returns the action identifier.
func (a Action) String() string {
	return string(a)
}

// Scope is the breadth of records a granted permission applies to.
type Scope string

const (
	ScopeNone Scope = ""     // zero value, no grant
	ScopeOwn  Scope = "own"  // only the subject's own records
	ScopeTeam Scope = "team" // records of the subject and their reports
	ScopeAll  Scope = "all"  // every record in the tenant
)

// ParseScope converts a string to a Scope.
func ParseScope(s string) (Scope, error) {
	sc := Scope(s)
	if err := sc.Validate(); err != nil {
		return "", err
	}
	return sc, nil
}

// Validate checks that the scope is one of the enumerated scopes.
func (s Scope) Validate() error {
	switch s {
	case ScopeOwn, ScopeTeam, ScopeAll:
		return nil
	}
	return fmt.Errorf("unknown scope: %q", string(s))
}

// String returns the scope identifier.
func (s Scope) String() string {
	return string(s)
}

// Wider reports whether s covers more records than other.
// Ordering: all > team > own > none.
func (s Scope) Wider(other Scope) bool {
	return s.rank() > other.rank()
}

func (s Scope) rank() int {
	switch s {
	case ScopeAll:
		return 3
	case ScopeTeam:
		return 2
	case ScopeOwn:
		return 1
	}
	return 0
}

// Grant allows a permission role to perform an action on a module,
// limited to the given scope. Grants are additive only: there are no
// explicit deny rules, and the absence of a grant is a denial.
type Grant struct {
	Role   PermissionRole
	Module Module
	Action Action
	Scope  Scope
}

// String returns a string representation of the grant.
// Format: role:module/action@scope
func (g *Grant) String() string {
	return fmt.Sprintf("%s:%s/%s@%s", g.Role, g.Module, g.Action, g.Scope)
}

// Validate checks that every field of the grant is a recognized enum value.
func (g *Grant) Validate() error {
	if err := g.Role.Validate(); err != nil {
		return fmt.Errorf("invalid grant role: %w", err)
	}
	if err := g.Module.Validate(); err != nil {
		return fmt.Errorf("invalid grant module: %w", err)
	}
	if err := g.Action.Validate(); err != nil {
		return fmt.Errorf("invalid grant action: %w", err)
	}
	if err := g.Scope.Validate(); err != nil {
		return fmt.Errorf("invalid grant scope: %w", err)
	}
	return nil
}
