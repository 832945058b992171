// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import "fmt"

// # Requirement Rules

// RuleAction names the column flag a [Rule] drives.
type RuleAction string

const (
	ActionRequired RuleAction = "required"
	ActionHidden   RuleAction = "hidden"
	ActionDisabled RuleAction = "disabled"
)

// ParseRuleAction validates a rule action name.
func ParseRuleAction(raw string) (RuleAction, error) {
	switch action := RuleAction(raw); action {
	case ActionRequired, ActionHidden, ActionDisabled:
		return action, nil
	default:
		return "", fmt.Errorf("dataentry: unknown rule action %q", raw)
	}
}

// Predicate gates a rule over the whole table. It must be total and free of
// side effects; a panicking predicate is a programming error and propagates.
type Predicate func(state State) bool

// RowPredicate selects the rows whose cells a disabled rule locks.
type RowPredicate func(row Row) bool

// Rule sets Action on every column in Columns to the predicate's result, or to
// true when Predicate is nil.
type Rule struct {
	Columns   []Field
	Action    RuleAction
	Predicate Predicate

	// RowPredicate only feeds [CellDisabled]; it never changes column flags.
	RowPredicate RowPredicate
}

// ApplyRequirements returns a copy of state with every column flag re-derived
// from rules. Rules run in order and the last write to a flag wins.
func ApplyRequirements(state State, rules []Rule) State {
	next := state.Clone()
	applyRequirements(&next, rules)
	return next
}

func applyRequirements(state *State, rules []Rule) {
	for _, rule := range rules {
		on := true
		if rule.Predicate != nil {
			on = rule.Predicate(*state)
		}
		for i := range state.Columns {
			if !containsField(rule.Columns, state.Columns[i].Field) {
				continue
			}
			switch rule.Action {
			case ActionRequired:
				state.Columns[i].Required = on
			case ActionHidden:
				state.Columns[i].Hidden = on
			case ActionDisabled:
				state.Columns[i].Disabled = on
			}
		}
	}
}

func containsField(fields []Field, field Field) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// # Predicate Builders

// AnyRow holds when at least one row has field equal to value.
func AnyRow(field Field, value string) Predicate {
	return func(state State) bool {
		for _, row := range state.Rows {
			if row.Text(field) == value {
				return true
			}
		}
		return false
	}
}

// NoRow holds when no row has field equal to value. It is true for an empty table.
func NoRow(field Field, value string) Predicate {
	match := AnyRow(field, value)
	return func(state State) bool { return !match(state) }
}

// GroupsInclude holds when code is among the selected groups.
func GroupsInclude(code string) Predicate {
	return func(state State) bool { return state.HasGroup(code) }
}

// RowNotEquals selects rows whose field differs from value.
func RowNotEquals(field Field, value string) RowPredicate {
	return func(row Row) bool { return row.Text(field) != value }
}

// # Built-in Rule Sets

// DatasetTypeRNASeq is the dataset type code that activates the RNA-seq columns.
const DatasetTypeRNASeq = "RRS"

// AlwaysRequiredFields must be filled on every row.
var AlwaysRequiredFields = []Field{
	FieldFamilyCodename,
	FieldParticipantCodename,
	FieldParticipantType,
	FieldTissueSampleType,
	FieldDatasetType,
	FieldCondition,
	FieldSequencingDate,
}

// RNASeqFields only apply to RNA-seq datasets.
var RNASeqFields = []Field{
	FieldRIN,
	FieldDV200,
	FieldConcentration,
	FieldSequencer,
	FieldSpikeIn,
}

// DefaultRules returns the standard rule list:
//
//  1. the identifying fields are always required;
//  2. RNA-seq fields are required when any row is an RNA-seq dataset;
//  3. RNA-seq fields are disabled when no row is, and locked on non RNA-seq rows;
//  4. RNA-seq fields are hidden when no row is an RNA-seq dataset.
func DefaultRules() []Rule {
	return []Rule{
		{Columns: AlwaysRequiredFields, Action: ActionRequired},
		{
			Columns:   RNASeqFields,
			Action:    ActionRequired,
			Predicate: AnyRow(FieldDatasetType, DatasetTypeRNASeq),
		},
		{
			Columns:      RNASeqFields,
			Action:       ActionDisabled,
			Predicate:    NoRow(FieldDatasetType, DatasetTypeRNASeq),
			RowPredicate: RowNotEquals(FieldDatasetType, DatasetTypeRNASeq),
		},
		{
			Columns:   RNASeqFields,
			Action:    ActionHidden,
			Predicate: NoRow(FieldDatasetType, DatasetTypeRNASeq),
		},
	}
}

// LegacyRules reproduces the historical rule list whose RNA-seq required and
// disabled predicates evaluated a per-row list as a condition, which is always
// truthy. Both rules are therefore unconditionally on.
func LegacyRules() []Rule {
	always := func(State) bool { return true }
	return []Rule{
		{Columns: AlwaysRequiredFields, Action: ActionRequired},
		{Columns: RNASeqFields, Action: ActionRequired, Predicate: always},
		{
			Columns:      RNASeqFields,
			Action:       ActionDisabled,
			Predicate:    always,
			RowPredicate: RowNotEquals(FieldDatasetType, DatasetTypeRNASeq),
		},
		{
			Columns:   RNASeqFields,
			Action:    ActionHidden,
			Predicate: NoRow(FieldDatasetType, DatasetTypeRNASeq),
		},
	}
}
