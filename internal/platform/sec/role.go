// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is the authorization level carried in the token.
type UserRole string

const (
	// Manages users and groups, sees every dataset and entry session.
	RoleAdmin UserRole = "admin"

	// Enters and reads metadata for the groups they belong to.
	RoleUser UserRole = "user"
)

// RoleFor maps the account admin flag onto a role.
func RoleFor(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
