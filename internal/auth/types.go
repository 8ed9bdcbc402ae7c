package auth

import "errors"

// Role represents an authorisation tier.
type Role string

const (
	// RoleAgent is the smart-home platform. It may only fulfil intents.
	RoleAgent Role = "agent"

	// RoleInstaller configures device records and may also fulfil intents
	// for testing.
	RoleInstaller Role = "installer"
)

// ValidRoles is the set of roles a token may carry.
var ValidRoles = []Role{RoleAgent, RoleInstaller}

// IsValidRole returns true if r is a known role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Errors.
var (
	ErrTokenInvalid = errors.New("auth: invalid token")
	ErrInvalidRole  = errors.New("auth: invalid role")
)
