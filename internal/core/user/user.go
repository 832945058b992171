// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user manages the accounts allowed to enter metadata.

Accounts are created by administrators and never log in here: identity is
proven upstream and arrives as a bearer token whose subject is the account ID.
Deactivated accounts keep their history but are refused by every endpoint
that looks them up.
*/
package user

import "time"

// # Core Entities

// User is an account known to the service.
type User struct {
	ID        string    `json:"id"` // UUIDv7
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Groups holds the codes of the permission groups the user belongs to.
	// Only populated on detail views.
	Groups []string `json:"groups,omitempty"`
}

// Filter holds parameters for listing users.
type Filter struct {
	Query    string
	IsActive *bool
}

// CreateInput is the body of an account creation request.
type CreateInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldID       = "id"
)

const (
	maxUsernameLength = 64
	maxEmailLength    = 254
)
