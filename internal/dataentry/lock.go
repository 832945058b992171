// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

// ParticipantFields identify a participant. They are locked on rows whose
// [RowMeta.ParticipantColumnsDisabled] is set.
var ParticipantFields = []Field{
	FieldFamilyCodename,
	FieldParticipantCodename,
	FieldParticipantType,
	FieldSex,
	FieldAffected,
	FieldSolved,
}

// CellDisabled reports whether the cell at (row, field) is read-only.
//
// A cell is locked when its column is disabled, when a disabled rule for the
// field has a row predicate that holds for the row, or when the row locks its
// participant columns. Out-of-range rows report false.
func CellDisabled(state State, rules []Rule, row int, field Field) bool {
	if row < 0 || row >= len(state.Rows) {
		return false
	}
	if column, ok := state.Column(field); ok && column.Disabled {
		return true
	}

	target := state.Rows[row]
	if target.Meta != nil && target.Meta.ParticipantColumnsDisabled && containsField(ParticipantFields, field) {
		return true
	}

	for _, rule := range rules {
		if rule.Action != ActionDisabled || rule.RowPredicate == nil {
			continue
		}
		if containsField(rule.Columns, field) && rule.RowPredicate(target) {
			return true
		}
	}
	return false
}

// LockedCells lists, per row, the fields [CellDisabled] reports as locked.
// Rows without locks map to an empty slice.
func LockedCells(state State, rules []Rule) [][]Field {
	out := make([][]Field, len(state.Rows))
	for i := range state.Rows {
		out[i] = []Field{}
		for _, column := range state.Columns {
			if CellDisabled(state, rules, i, column.Field) {
				out[i] = append(out[i], column.Field)
			}
		}
	}
	return out
}
