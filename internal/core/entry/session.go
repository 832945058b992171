// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package entry hosts data entry tables as server-side sessions.

A session is one [dataentry.State] plus the name of the rule set driving its
column flags. Every request loads the session, reduces one action through a
[dataentry.Machine] and writes the result back with a fresh TTL. Two requests
racing on one session are not sequenced: the later write wins.
*/
package entry

import (
	"time"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
)

// # Domain Models

// Session is the persisted editing session.
type Session struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	RuleSet string `json:"rule_set"`

	dataentry.State

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is a session as served to the client, with the derived cell locks and
// the problems that would block submission.
type View struct {
	Session

	LockedCells [][]dataentry.Field `json:"locked_cells"`
	Issues      []apperr.FieldError `json:"issues"`
}

// OpenInput starts a session.
type OpenInput struct {
	Rows    []dataentry.Row `json:"rows"`
	Groups  []string        `json:"groups"`
	RuleSet string          `json:"rule_set"`
}

// RuleSetInput switches the rule set of a session.
type RuleSetInput struct {
	RuleSet string `json:"rule_set"`
}

// BulkRequest is the bulk-create call a client would make for the session:
// the rows flattened to field values and the encoded "groups" query.
type BulkRequest struct {
	Query string           `json:"query"`
	Rows  []map[string]any `json:"rows"`
}

// SubmitResult reports a successful submission.
type SubmitResult struct {
	SessionID  string   `json:"session_id"`
	DatasetIDs []string `json:"dataset_ids"`
	Count      int      `json:"count"`
}

// # Constants

const (
	FieldID      = "id"
	FieldRuleSet = "rule_set"
	FieldAction  = "action"
	FieldCSV     = "csv"
	FieldMode    = "mode"

	// WarningInvalidIndex flags a dispatched action that pointed past the table.
	WarningInvalidIndex = "INVALID_INDEX"
)
