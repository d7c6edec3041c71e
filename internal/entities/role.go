package entities

import "fmt"

// OperationalRole is a business-facing job title assigned to an employee.
// It is distinct from the abstract permission role it maps to: the grant
// table is keyed by PermissionRole, and the role mapper translates one
// into the other.
type OperationalRole string

const (
	RolePartner  OperationalRole = "partner"
	RoleCA       OperationalRole = "ca"
	RoleAdvocate OperationalRole = "advocate"
	RoleManager  OperationalRole = "manager"
	RoleStaff    OperationalRole = "staff"
	RoleRM       OperationalRole = "rm"
	RoleFinance  OperationalRole = "finance"
	RoleAdmin    OperationalRole = "admin"
)

// OperationalRoles lists every recognized operational role.
var OperationalRoles = []OperationalRole{
	RolePartner,
	RoleCA,
	RoleAdvocate,
	RoleManager,
	RoleStaff,
	RoleRM,
	RoleFinance,
	RoleAdmin,
}

// ParseOperationalRole converts a string to an OperationalRole.
// Unknown values are rejected rather than coerced.
func ParseOperationalRole(s string) (OperationalRole, error) {
	role := OperationalRole(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

// Validate checks that the role is one of the enumerated operational roles.
func (r OperationalRole) Validate() error {
	switch r {
	case RolePartner, RoleCA, RoleAdvocate, RoleManager, RoleStaff, RoleRM, RoleFinance, RoleAdmin:
		return nil
	}
	return fmt.Errorf("unknown operational role: %q", string(r))
}

// String returns the role identifier.
func (r OperationalRole) String() string {
	return string(r)
}

// PermissionRole is an abstract permission level that grants are attached to.
type PermissionRole string

const (
	PermRoleSuperAdmin PermissionRole = "superadmin"
	PermRoleAdmin      PermissionRole = "admin"
	PermRoleManager    PermissionRole = "manager"
	PermRoleStaff      PermissionRole = "staff"
)

// PermissionRoles lists every recognized permission role.
var PermissionRoles = []PermissionRole{
	PermRoleSuperAdmin,
	PermRoleAdmin,
	PermRoleManager,
	PermRoleStaff,
}

// ParsePermissionRole converts a string to a PermissionRole.
func ParsePermissionRole(s string) (PermissionRole, error) {
	role := PermissionRole(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

// Validate checks that the role is one of the enumerated permission roles.
func (r PermissionRole) Validate() error {
	switch r {
	case PermRoleSuperAdmin, PermRoleAdmin, PermRoleManager, PermRoleStaff:
		return nil
	}
	return fmt.Errorf("unknown permission role: %q", string(r))
}

// String returns the role identifier.
func (r PermissionRole) String() string {
	return string(r)
}
