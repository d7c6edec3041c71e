package access

import "github.com/vakildesk/dwarpal/internal/entities"

// RoleMapper translates an operational role (a job title) into the
// abstract permission roles the grant table is keyed by. The mapping
// table is copied at construction and never mutated, so a single mapper
// can be shared across requests.
type RoleMapper struct {
	table map[entities.OperationalRole][]entities.PermissionRole
}

// defaultRoleTable is the stock operational-to-permission role mapping.
var defaultRoleTable = map[entities.OperationalRole][]entities.PermissionRole{
	entities.RolePartner:  {entities.PermRoleSuperAdmin},
	entities.RoleAdmin:    {entities.PermRoleAdmin},
	entities.RoleCA:       {entities.PermRoleManager},
	entities.RoleAdvocate: {entities.PermRoleManager},
	entities.RoleManager:  {entities.PermRoleManager},
	entities.RoleFinance:  {entities.PermRoleManager, entities.PermRoleStaff},
	entities.RoleRM:       {entities.PermRoleStaff},
	entities.RoleStaff:    {entities.PermRoleStaff},
}

// NewRoleMapper creates a RoleMapper with the stock mapping table.
func NewRoleMapper() *RoleMapper {
	return NewRoleMapperWithTable(defaultRoleTable)
}

// NewRoleMapperWithTable creates a RoleMapper from the given table.
// The table is deep-copied so later mutation of the argument has no effect.
func NewRoleMapperWithTable(table map[entities.OperationalRole][]entities.PermissionRole) *RoleMapper {
	copied := make(map[entities.OperationalRole][]entities.PermissionRole, len(table))
	for role, permRoles := range table {
		dst := make([]entities.PermissionRole, len(permRoles))
		copy(dst, permRoles)
		copied[role] = dst
	}
	return &RoleMapper{table: copied}
}

// RolesFor returns the permission roles for an operational role.
// Unknown roles yield an empty set, which downstream evaluation treats
// as zero permissions.
func (m *RoleMapper) RolesFor(role entities.OperationalRole) []entities.PermissionRole {
	permRoles, ok := m.table[role]
	if !ok {
		return nil
	}
	out := make([]entities.PermissionRole, len(permRoles))
	copy(out, permRoles)
	return out
}
