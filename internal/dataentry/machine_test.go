// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry_test

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/dataentry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func column(t *testing.T, state dataentry.State, field dataentry.Field) dataentry.Column {
	t.Helper()
	col, ok := state.Column(field)
	require.True(t, ok, "missing column %s", field)
	return col
}

/*
TestNewState_Defaults verifies the blank table and its initial derivation.
*/
func TestNewState_Defaults(t *testing.T) {
	state := dataentry.NewState(nil, nil, nil, dataentry.DefaultRules())

	require.Len(t, state.Rows, dataentry.DefaultInitialRows)
	for _, row := range state.Rows {
		assert.Equal(t, dataentry.EmptyRow(), row)
	}
	assert.Empty(t, state.Groups)
	assert.Len(t, state.Columns, len(dataentry.Fields()))

	for _, field := range dataentry.AlwaysRequiredFields {
		assert.True(t, column(t, state, field).Required, field)
	}
	for _, field := range dataentry.RNASeqFields {
		col := column(t, state, field)
		assert.True(t, col.Hidden, field)
		assert.True(t, col.Disabled, field)
		assert.False(t, col.Required, field)
	}
}

/*
TestReduce_RNASeqScenario marks one row as RNA-seq and expects the RNA-seq
columns to become visible, required and enabled.
*/
func TestReduce_RNASeqScenario(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	next, err := dataentry.Reduce(state, dataentry.EditField{
		Row: 0, Field: dataentry.FieldDatasetType, Value: "RRS",
	}, rules)
	require.NoError(t, err)

	assert.Equal(t, "RRS", next.Rows[0].DatasetType)
	for _, field := range dataentry.RNASeqFields {
		before := column(t, state, field)
		after := column(t, next, field)
		assert.True(t, before.Hidden, field)
		assert.False(t, after.Hidden, field)
		assert.True(t, after.Required, field)
		assert.False(t, after.Disabled, field)
	}

	// Clearing the only RNA-seq row hides the group again.
	cleared, err := dataentry.Reduce(next, dataentry.EditField{
		Row: 0, Field: dataentry.FieldDatasetType, Value: "",
	}, rules)
	require.NoError(t, err)
	for _, field := range dataentry.RNASeqFields {
		assert.True(t, column(t, cleared, field).Hidden, field)
	}
}

/*
TestReduce_DuplicateRow checks that the copy lands after its source without
linked files.
*/
func TestReduce_DuplicateRow(t *testing.T) {
	rules := dataentry.DefaultRules()
	source := dataentry.EmptyRow()
	source.FamilyCodename = "FAM1"
	source.ParticipantCodename = "P1"
	rin := 7.2
	source.RIN = &rin
	source.LinkedFiles = []dataentry.LinkedFile{{Path: "uploads/a.bam"}}

	state := dataentry.NewState([]dataentry.Row{source, dataentry.EmptyRow()}, nil, nil, rules)

	next, err := dataentry.Reduce(state, dataentry.DuplicateRow{Index: 0}, rules)
	require.NoError(t, err)

	require.Len(t, next.Rows, 3)
	copied := next.Rows[1]
	assert.Equal(t, "FAM1", copied.FamilyCodename)
	assert.Equal(t, "P1", copied.ParticipantCodename)
	require.NotNil(t, copied.RIN)
	assert.Equal(t, 7.2, *copied.RIN)
	assert.Empty(t, copied.LinkedFiles)

	// Source keeps its files and does not share pointers with the copy.
	assert.Equal(t, []dataentry.LinkedFile{{Path: "uploads/a.bam"}}, next.Rows[0].LinkedFiles)
	*next.Rows[1].RIN = 1
	assert.Equal(t, 7.2, *next.Rows[0].RIN)

	// The input state is never mutated.
	assert.Len(t, state.Rows, 2)
}

/*
TestReduce_DeleteAndAdd covers row removal down to an empty table and appending.
*/
func TestReduce_DeleteAndAdd(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	// 1. Adding to the three default rows yields four
	added, err := dataentry.Reduce(state, dataentry.AddEmptyRow{}, rules)
	require.NoError(t, err)
	require.Len(t, added.Rows, 4)
	assert.Equal(t, dataentry.EmptyRow(), added.Rows[3])

	// 2. Deleting every row is allowed
	current := added
	for len(current.Rows) > 0 {
		current, err = dataentry.Reduce(current, dataentry.DeleteRow{Index: 0}, rules)
		require.NoError(t, err)
	}
	assert.Empty(t, current.Rows)
	for _, field := range dataentry.RNASeqFields {
		assert.True(t, column(t, current, field).Hidden, field)
	}
}

/*
TestReduce_InvalidIndex verifies out-of-range actions leave the state untouched.
*/
func TestReduce_InvalidIndex(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, []string{"C4R"}, nil, rules)
	rowCount := len(state.Rows)

	tests := []struct {
		name   string
		action dataentry.Action
	}{
		{"delete_negative", dataentry.DeleteRow{Index: -1}},
		{"delete_past_end", dataentry.DeleteRow{Index: rowCount}},
		{"duplicate_negative", dataentry.DuplicateRow{Index: -1}},
		{"duplicate_past_end", dataentry.DuplicateRow{Index: rowCount}},
		{"edit_past_end", dataentry.EditField{Row: rowCount, Field: dataentry.FieldNotes, Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := dataentry.Reduce(state, tt.action, rules)

			require.Error(t, err)
			assert.True(t, errors.Is(err, dataentry.ErrInvalidIndex))

			var indexErr *dataentry.IndexError
			require.ErrorAs(t, err, &indexErr)
			assert.Equal(t, rowCount, indexErr.Len)

			assert.Equal(t, state, next)
		})
	}
}

/*
TestReduce_EditFieldRejections covers unknown keys and uncoercible values.
*/
func TestReduce_EditFieldRejections(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	next, err := dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: "bogus", Value: "x"}, rules)
	assert.ErrorIs(t, err, dataentry.ErrUnknownField)
	assert.Equal(t, state, next)

	next, err = dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: dataentry.FieldRIN, Value: "high"}, rules)
	assert.ErrorIs(t, err, dataentry.ErrInvalidValue)
	assert.Equal(t, state, next)

	for _, value := range []any{"NaN", "Inf", "-Infinity", math.Inf(1)} {
		next, err = dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: dataentry.FieldRIN, Value: value}, rules)
		assert.ErrorIs(t, err, dataentry.ErrInvalidValue, value)
		assert.Equal(t, state, next)
	}

	// Blank linked file entries are dropped
	next, err = dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: dataentry.FieldLinkedFiles, Value: []any{"", " uploads/a.bam "}}, rules)
	require.NoError(t, err)
	assert.Equal(t, []dataentry.LinkedFile{{Path: "uploads/a.bam"}}, next.Rows[0].LinkedFiles)

	_, err = dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: dataentry.FieldLinkedFiles, Value: []any{map[string]any{"path": " "}}}, rules)
	assert.ErrorIs(t, err, dataentry.ErrInvalidValue)

	next, err = dataentry.Reduce(state, dataentry.EditField{Row: 0, Field: dataentry.FieldRIN, Value: "8.1"}, rules)
	require.NoError(t, err)
	require.NotNil(t, next.Rows[0].RIN)
	assert.Equal(t, 8.1, *next.Rows[0].RIN)
}

/*
TestReduce_SetGroups replaces the selection and feeds group-keyed rules.
*/
func TestReduce_SetGroups(t *testing.T) {
	rules := []dataentry.Rule{{
		Columns:   []dataentry.Field{dataentry.FieldInstitution},
		Action:    dataentry.ActionRequired,
		Predicate: dataentry.GroupsInclude("C4R"),
	}}
	state := dataentry.NewState(nil, []string{"CHEO"}, nil, rules)
	assert.False(t, column(t, state, dataentry.FieldInstitution).Required)

	next, err := dataentry.Reduce(state, dataentry.SetGroups{Groups: []string{"C4R", "SK"}}, rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"C4R", "SK"}, next.Groups)
	assert.True(t, column(t, next, dataentry.FieldInstitution).Required)
}

/*
TestReduce_ToggleColumnHidden verifies the soft override: the rule wins again
on the next structural action.
*/
func TestReduce_ToggleColumnHidden(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	// 1. Rule-governed column: toggle shows it until the next evaluation
	shown, err := dataentry.Reduce(state, dataentry.ToggleColumnHidden{Field: dataentry.FieldRIN}, rules)
	require.NoError(t, err)
	assert.False(t, column(t, shown, dataentry.FieldRIN).Hidden)

	reverted, err := dataentry.Reduce(shown, dataentry.AddEmptyRow{}, rules)
	require.NoError(t, err)
	assert.True(t, column(t, reverted, dataentry.FieldRIN).Hidden)

	// 2. Column no rule touches: toggle persists across evaluations
	hidden, err := dataentry.Reduce(state, dataentry.ToggleColumnHidden{Field: dataentry.FieldNotes}, rules)
	require.NoError(t, err)
	assert.True(t, column(t, hidden, dataentry.FieldNotes).Hidden)

	still, err := dataentry.Reduce(hidden, dataentry.AddEmptyRow{}, rules)
	require.NoError(t, err)
	assert.True(t, column(t, still, dataentry.FieldNotes).Hidden)
}

/*
TestReduce_ImportRows covers both CSV import modes.
*/
func TestReduce_ImportRows(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	imported := dataentry.EmptyRow()
	imported.DatasetType = "RRS"

	appended, err := dataentry.Reduce(state, dataentry.ImportRows{Rows: []dataentry.Row{imported}, Mode: dataentry.ImportAppend}, rules)
	require.NoError(t, err)
	assert.Len(t, appended.Rows, 4)
	assert.False(t, column(t, appended, dataentry.FieldRIN).Hidden)

	replaced, err := dataentry.Reduce(state, dataentry.ImportRows{Rows: []dataentry.Row{imported}, Mode: dataentry.ImportReplace}, rules)
	require.NoError(t, err)
	assert.Len(t, replaced.Rows, 1)

	_, err = dataentry.Reduce(state, dataentry.ImportRows{Mode: "merge"}, rules)
	assert.ErrorIs(t, err, dataentry.ErrInvalidValue)
}

/*
TestReduce_FlagsMatchFreshEvaluation drives a random action sequence and checks
after each step that the columns equal a fresh evaluation of the rules.
*/
func TestReduce_FlagsMatchFreshEvaluation(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)
	random := rand.New(rand.NewSource(42))
	datasetTypes := []string{"RRS", "WGS", "WES", ""}

	for step := 0; step < 300; step++ {
		var action dataentry.Action
		index := random.Intn(len(state.Rows)+2) - 1

		switch random.Intn(5) {
		case 0:
			action = dataentry.DuplicateRow{Index: index}
		case 1:
			action = dataentry.DeleteRow{Index: index}
		case 2:
			action = dataentry.AddEmptyRow{}
		case 3:
			action = dataentry.EditField{
				Row:   index,
				Field: dataentry.FieldDatasetType,
				Value: datasetTypes[random.Intn(len(datasetTypes))],
			}
		default:
			action = dataentry.SetGroups{Groups: []string{"G", "H"}[:random.Intn(3)]}
		}

		next, err := dataentry.Reduce(state, action, rules)
		if err != nil {
			require.ErrorIs(t, err, dataentry.ErrInvalidIndex)
			require.Equal(t, state, next)
		}
		state = next

		fresh := dataentry.ApplyRequirements(state, rules)
		require.Equal(t, fresh.Columns, state.Columns, "step %d (%s)", step, action.Name())
	}
}

/*
TestMachine_Dispatch covers the stateful container and rule set swaps.
*/
func TestMachine_Dispatch(t *testing.T) {
	machine := dataentry.NewMachine(dataentry.NewState(nil, nil, nil, nil), dataentry.DefaultRules(), discardLogger())

	// 1. Initial derivation happens on construction
	assert.True(t, column(t, machine.State(), dataentry.FieldRIN).Hidden)

	// 2. Invalid index is reported but swallowed by state
	before := machine.State()
	err := machine.Dispatch(dataentry.DeleteRow{Index: 10})
	assert.ErrorIs(t, err, dataentry.ErrInvalidIndex)
	assert.Equal(t, before, machine.State())

	// 3. Valid actions apply
	require.NoError(t, machine.Dispatch(dataentry.AddEmptyRow{}))
	assert.Len(t, machine.State().Rows, 4)

	// 4. Swapping rules re-derives flags without any action
	machine.SetRules(dataentry.LegacyRules())
	rin := column(t, machine.State(), dataentry.FieldRIN)
	assert.True(t, rin.Required)
	assert.True(t, rin.Disabled)
	assert.Len(t, machine.Rules(), 4)

	// 5. Returned state is a copy
	snapshot := machine.State()
	snapshot.Rows[0].Notes = "changed"
	assert.Empty(t, machine.State().Rows[0].Notes)
}

/*
TestResumeMachine verifies stored flags are trusted until a structural action.
*/
func TestResumeMachine(t *testing.T) {
	rules := dataentry.DefaultRules()
	state := dataentry.NewState(nil, nil, nil, rules)

	state, err := dataentry.Reduce(state, dataentry.ToggleColumnHidden{Field: dataentry.FieldRIN}, rules)
	require.NoError(t, err)
	require.False(t, column(t, state, dataentry.FieldRIN).Hidden)

	// 1. A non-structural action keeps the toggle
	machine := dataentry.ResumeMachine(state, rules, discardLogger())
	require.NoError(t, machine.Dispatch(dataentry.ToggleColumnHidden{Field: dataentry.FieldNotes}))
	assert.False(t, column(t, machine.State(), dataentry.FieldRIN).Hidden)
	assert.True(t, column(t, machine.State(), dataentry.FieldNotes).Hidden)

	// 2. The next structural action re-derives it
	require.NoError(t, machine.Dispatch(dataentry.AddEmptyRow{}))
	assert.True(t, column(t, machine.State(), dataentry.FieldRIN).Hidden)
}
