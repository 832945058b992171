// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package group manages permission groups and their memberships.

A group is the unit of data sharing: every dataset is granted to one or more
groups at submission, and a user sees the datasets of the groups they belong
to. Groups are referred to by their short code ("C4R", "CHEO") in query
parameters and in the data entry table.
*/
package group

import "time"

// # Core Entities

// Group is a permission group.
type Group struct {
	ID        string    `json:"id"` // UUIDv7
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Member links a user to a group.
type Member struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"` // Denormalized for listings
	JoinedAt time.Time `json:"joined_at"`
}

// # Search & Filtering

// Filter holds parameters for listing groups.
type Filter struct {
	Query string
}

// CreateInput is the body of a group creation request. Code defaults to one
// derived from Name.
type CreateInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MemberInput is the body of an add-member request.
type MemberInput struct {
	UserID string `json:"user_id"`
}

// # Field Identifiers

const (
	FieldCode   = "code"
	FieldName   = "name"
	FieldID     = "id"
	FieldUserID = "user_id"
	FieldGroups = "groups"
)

const (
	maxCodeLength = 32
	maxNameLength = 200
)
