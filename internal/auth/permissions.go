package auth

import "slices"

// Permission represents a named capability in the system.
type Permission string

// Permission constants.
const (
	PermFulfill         Permission = "assistant:fulfill"
	PermConfigRead      Permission = "configuration:read"
	PermConfigWrite     Permission = "configuration:write"
	PermConfigApply     Permission = "configuration:apply"
	PermEventsSubscribe Permission = "events:subscribe"
)

// rolePermissions maps each role to its granted permissions.
var rolePermissions = map[Role][]Permission{
	RoleAgent: {
		PermFulfill,
	},
	RoleInstaller: {
		PermFulfill,
		PermConfigRead,
		PermConfigWrite,
		PermConfigApply,
		PermEventsSubscribe,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	perms := rolePermissions[role]
	if perms == nil {
		return nil
	}
	return slices.Clone(perms)
}
