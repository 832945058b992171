// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dataentry implements the bulk metadata entry table as a state machine.

A [State] holds the ordered rows being typed, the permission groups the batch
will be shared with, and one [Column] descriptor per field. Mutations are
expressed as [Action] values and applied with [Reduce], a pure function that
re-derives every column flag from the requirement [Rule] list after each
structural change. [Machine] wraps the reducer for callers that want a
stateful container.

# Invariant

After any reduction the Hidden, Required and Disabled flags of every column
equal a fresh [ApplyRequirements] over the resulting rows and groups. The one
exception is a [ToggleColumnHidden] action, which flips Hidden without
re-evaluating.
*/
package dataentry

import "slices"

// DefaultInitialRows is the number of blank rows a table starts with when no
// initial rows are supplied.
const DefaultInitialRows = 3

// State is the complete data entry table.
type State struct {
	Rows    []Row    `json:"rows"`
	Groups  []string `json:"groups"`
	Columns []Column `json:"columns"`
}

// NewState builds the initial table and evaluates rules once.
//
// Empty rows are replaced by [DefaultInitialRows] blank rows and nil columns
// by [DefaultColumns].
func NewState(rows []Row, groups []string, columns []Column, rules []Rule) State {
	state := State{
		Rows:    make([]Row, 0, max(len(rows), DefaultInitialRows)),
		Groups:  slices.Clone(groups),
		Columns: slices.Clone(columns),
	}

	for _, row := range rows {
		state.Rows = append(state.Rows, row.Clone())
	}
	if len(state.Rows) == 0 {
		for range DefaultInitialRows {
			state.Rows = append(state.Rows, EmptyRow())
		}
	}
	if state.Groups == nil {
		state.Groups = []string{}
	}
	if state.Columns == nil {
		state.Columns = DefaultColumns()
	}

	applyRequirements(&state, rules)
	return state
}

// Clone deep-copies the state.
func (s State) Clone() State {
	out := State{
		Groups:  slices.Clone(s.Groups),
		Columns: slices.Clone(s.Columns),
	}
	if s.Rows != nil {
		out.Rows = make([]Row, len(s.Rows))
		for i, row := range s.Rows {
			out.Rows[i] = row.Clone()
		}
	}
	return out
}

// Column returns the first descriptor for field.
func (s State) Column(field Field) (Column, bool) {
	for _, column := range s.Columns {
		if column.Field == field {
			return column, true
		}
	}
	return Column{}, false
}

// HasGroup reports whether code is among the selected groups.
func (s State) HasGroup(code string) bool {
	return slices.Contains(s.Groups, code)
}
