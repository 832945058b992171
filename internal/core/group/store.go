// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import "context"

// # Group Data Access

// Repository defines the data access contract for groups and memberships.
type Repository interface {

	/*
		List returns a filtered, paginated slice of groups and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (name or code fragment)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Group: Groups ordered by code
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Group, int, error)

	/*
		FindByID retrieves a group by its UUID.

		Returns:
		  - *Group: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Group, error)

	// FindByCode retrieves a group by its unique code.
	FindByCode(context context.Context, code string) (*Group, error)

	/*
		FindByCodes retrieves every group whose code is listed. Unknown codes are
		simply absent from the result.
	*/
	FindByCodes(context context.Context, codes []string) ([]*Group, error)

	// Create persists a new group. A duplicate code fails with a conflict.
	Create(context context.Context, group *Group) error

	// # Membership Management

	// ListMembers returns the users affiliated with a group, ordered by username.
	ListMembers(context context.Context, groupID string) ([]*Member, error)

	// AddMember links a user to a group. Adding an existing member is a no-op.
	AddMember(context context.Context, groupID, userID string) error

	// RemoveMember unlinks a user from a group.
	RemoveMember(context context.Context, groupID, userID string) error

	// MemberCodes returns the codes of the groups a user belongs to, ordered.
	MemberCodes(context context.Context, userID string) ([]string, error)
}
