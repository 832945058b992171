// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"encoding/json"
	"fmt"
	"slices"
)

// # Actions

// Action is a closed set of table mutations. Only types declared in this
// package implement it.
type Action interface {
	// Name is the wire name of the action, also used in logs and metrics.
	Name() string

	apply(state *State) error
	reevaluates() bool
}

// Wire names accepted by [DecodeAction].
const (
	NameDuplicateRow       = "duplicate_row"
	NameDeleteRow          = "delete_row"
	NameAddEmptyRow        = "add_empty_row"
	NameEditField          = "edit_field"
	NameSetGroups          = "set_groups"
	NameToggleColumnHidden = "toggle_column_hidden"
	NameImportRows         = "import_rows"
)

// DuplicateRow inserts a copy of Rows[Index] right after it. The copy does not
// keep linked files since a file belongs to exactly one row.
type DuplicateRow struct {
	Index int
}

func (DuplicateRow) Name() string      { return NameDuplicateRow }
func (DuplicateRow) reevaluates() bool { return true }

func (a DuplicateRow) apply(state *State) error {
	if err := checkIndex(a.Name(), a.Index, len(state.Rows)); err != nil {
		return err
	}
	copied := state.Rows[a.Index].Clone()
	copied.LinkedFiles = []LinkedFile{}
	state.Rows = slices.Insert(state.Rows, a.Index+1, copied)
	return nil
}

// DeleteRow removes Rows[Index]. Deleting the last row leaves an empty table.
type DeleteRow struct {
	Index int
}

func (DeleteRow) Name() string      { return NameDeleteRow }
func (DeleteRow) reevaluates() bool { return true }

func (a DeleteRow) apply(state *State) error {
	if err := checkIndex(a.Name(), a.Index, len(state.Rows)); err != nil {
		return err
	}
	state.Rows = slices.Delete(state.Rows, a.Index, a.Index+1)
	return nil
}

// AddEmptyRow appends one [EmptyRow].
type AddEmptyRow struct{}

func (AddEmptyRow) Name() string      { return NameAddEmptyRow }
func (AddEmptyRow) reevaluates() bool { return true }

func (AddEmptyRow) apply(state *State) error {
	state.Rows = append(state.Rows, EmptyRow())
	return nil
}

// EditField sets one cell. Value is coerced to the field's kind.
type EditField struct {
	Row   int
	Field Field
	Value any
}

func (EditField) Name() string      { return NameEditField }
func (EditField) reevaluates() bool { return true }

func (a EditField) apply(state *State) error {
	if err := checkIndex(a.Name(), a.Row, len(state.Rows)); err != nil {
		return err
	}
	acc, ok := accessors[a.Field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
	}
	return acc.set(&state.Rows[a.Row], a.Value)
}

// SetGroups replaces the permission group selection.
type SetGroups struct {
	Groups []string
}

func (SetGroups) Name() string      { return NameSetGroups }
func (SetGroups) reevaluates() bool { return true }

func (a SetGroups) apply(state *State) error {
	state.Groups = slices.Clone(a.Groups)
	if state.Groups == nil {
		state.Groups = []string{}
	}
	return nil
}

// ToggleColumnHidden flips Hidden on the columns for Field without
// re-evaluating rules, so the next structural action may override it.
type ToggleColumnHidden struct {
	Field Field
}

func (ToggleColumnHidden) Name() string      { return NameToggleColumnHidden }
func (ToggleColumnHidden) reevaluates() bool { return false }

func (a ToggleColumnHidden) apply(state *State) error {
	if _, ok := accessors[a.Field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
	}
	for i := range state.Columns {
		if state.Columns[i].Field == a.Field {
			state.Columns[i].Hidden = !state.Columns[i].Hidden
		}
	}
	return nil
}

// ImportMode selects how [ImportRows] combines parsed rows with the table.
type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

// ImportRows adds rows produced by the CSV side channel.
type ImportRows struct {
	Rows []Row
	Mode ImportMode
}

func (ImportRows) Name() string      { return NameImportRows }
func (ImportRows) reevaluates() bool { return true }

func (a ImportRows) apply(state *State) error {
	imported := make([]Row, len(a.Rows))
	for i, row := range a.Rows {
		imported[i] = row.Clone()
	}

	switch a.Mode {
	case ImportReplace:
		state.Rows = imported
	case ImportAppend, "":
		state.Rows = append(state.Rows, imported...)
	default:
		return fmt.Errorf("%w: import mode %q", ErrInvalidValue, a.Mode)
	}
	return nil
}

// # Reducer

// Reduce applies action to a copy of state and re-derives the column flags
// when the action is structural.
//
// On failure the original state is returned untouched together with the
// error. Callers may log and ignore it.
func Reduce(state State, action Action, rules []Rule) (State, error) {
	next := state.Clone()
	if err := action.apply(&next); err != nil {
		return state, err
	}
	if action.reevaluates() {
		applyRequirements(&next, rules)
	}
	return next, nil
}

// # Wire Decoding

// actionEnvelope is the JSON shape of a dispatched action.
type actionEnvelope struct {
	Type   string   `json:"type"`
	Index  *int     `json:"index"`
	Row    *int     `json:"row"`
	Field  string   `json:"field"`
	Value  any      `json:"value"`
	Groups []string `json:"groups"`
}

// DecodeAction parses a JSON action such as
//
//	{"type": "edit_field", "row": 0, "field": "dataset_type", "value": "RRS"}
//
// Unknown types fail with [ErrUnknownAction]; unknown fields with [ErrUnknownField].
func DecodeAction(data []byte) (Action, error) {
	var envelope actionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("dataentry: malformed action: %w", err)
	}

	switch envelope.Type {
	case NameDuplicateRow:
		index, err := requireInt(envelope.Index, "index")
		if err != nil {
			return nil, err
		}
		return DuplicateRow{Index: index}, nil

	case NameDeleteRow:
		index, err := requireInt(envelope.Index, "index")
		if err != nil {
			return nil, err
		}
		return DeleteRow{Index: index}, nil

	case NameAddEmptyRow:
		return AddEmptyRow{}, nil

	case NameEditField:
		row, err := requireInt(envelope.Row, "row")
		if err != nil {
			return nil, err
		}
		field, err := ParseField(envelope.Field)
		if err != nil {
			return nil, err
		}
		return EditField{Row: row, Field: field, Value: envelope.Value}, nil

	case NameSetGroups:
		return SetGroups{Groups: envelope.Groups}, nil

	case NameToggleColumnHidden:
		field, err := ParseField(envelope.Field)
		if err != nil {
			return nil, err
		}
		return ToggleColumnHidden{Field: field}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Type)
	}
}

func requireInt(value *int, name string) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("dataentry: malformed action: missing %q", name)
	}
	return *value, nil
}
