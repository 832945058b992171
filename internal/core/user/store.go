// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import "context"

// # User Data Access

// Repository defines the data access contract for accounts.
type Repository interface {

	/*
		List returns a filtered, paginated slice of users and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Matching users ordered by username
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*User, int, error)

	/*
		FindByID retrieves a user by its UUID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*User, error)

	// Create persists a new account. Duplicate usernames or emails fail with a conflict.
	Create(context context.Context, user *User) error

	// SetActive flips the active flag and refreshes updatedat.
	SetActive(context context.Context, id string, active bool) error
}
