// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
)

func completeRow(datasetType string) dataentry.Row {
	row := dataentry.EmptyRow()
	row.FamilyCodename = "FAM1"
	row.ParticipantCodename = "P1"
	row.ParticipantType = "Proband"
	row.TissueSampleType = "Blood"
	row.DatasetType = datasetType
	row.Condition = "GermLine"
	row.SequencingDate = "2026-03-14"
	return row
}

func failedFields(t *testing.T, err error) []string {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	fields := make([]string, len(appErr.Details))
	for i, detail := range appErr.Details {
		fields[i] = detail.Field
	}
	return fields
}

/*
TestValidate covers required, vocabulary and date checks per cell.
*/
func TestValidate(t *testing.T) {
	rules := dataentry.DefaultRules()
	rin, dv200, concentration := 8.0, 70.0, 12.5

	rnaRow := completeRow("RRS")
	rnaRow.RIN = &rin
	rnaRow.DV200 = &dv200
	rnaRow.Concentration = &concentration
	rnaRow.Sequencer = "NovaSeq"
	rnaRow.SpikeIn = "ERCC"

	t.Run("valid_mixed_table", func(t *testing.T) {
		state := dataentry.NewState([]dataentry.Row{rnaRow, completeRow("WGS")}, nil, nil, rules)
		assert.NoError(t, dataentry.Validate(state, rules))
	})

	t.Run("missing_required", func(t *testing.T) {
		row := completeRow("WGS")
		row.Condition = ""
		state := dataentry.NewState([]dataentry.Row{row}, nil, nil, rules)

		err := dataentry.Validate(state, rules)
		assert.Equal(t, []string{"rows[0].condition"}, failedFields(t, err))
	})

	t.Run("missing_rna_fields", func(t *testing.T) {
		state := dataentry.NewState([]dataentry.Row{completeRow("RRS")}, nil, nil, rules)

		err := dataentry.Validate(state, rules)
		assert.ElementsMatch(t, []string{
			"rows[0].RIN", "rows[0].DV200", "rows[0].concentration", "rows[0].sequencer", "rows[0].spike_in",
		}, failedFields(t, err))
	})

	t.Run("vocabulary_and_date", func(t *testing.T) {
		row := completeRow("WGS")
		row.Sex = "M"
		row.SequencingDate = "14/03/2026"
		state := dataentry.NewState([]dataentry.Row{row}, nil, nil, rules)

		err := dataentry.Validate(state, rules)
		assert.ElementsMatch(t, []string{"rows[0].sex", "rows[0].sequencing_date"}, failedFields(t, err))
	})

	t.Run("hidden_by_hand_stays_required", func(t *testing.T) {
		row := rnaRow
		row.RIN = nil
		row.Condition = ""
		state := dataentry.NewState([]dataentry.Row{row}, nil, nil, rules)

		// 1. Hide a rule-shown column and a plain column from the grid
		var err error
		for _, field := range []dataentry.Field{dataentry.FieldRIN, dataentry.FieldCondition} {
			state, err = dataentry.Reduce(state, dataentry.ToggleColumnHidden{Field: field}, rules)
			require.NoError(t, err)
		}
		require.True(t, column(t, state, dataentry.FieldRIN).Hidden)
		require.True(t, column(t, state, dataentry.FieldCondition).Hidden)

		// 2. Both blank cells still block submission
		err = dataentry.Validate(state, rules)
		assert.ElementsMatch(t, []string{"rows[0].RIN", "rows[0].condition"}, failedFields(t, err))
		assert.True(t, column(t, state, dataentry.FieldRIN).Hidden)
	})

	t.Run("empty_table", func(t *testing.T) {
		state := dataentry.NewState(nil, nil, nil, rules)
		state.Rows = nil

		err := dataentry.Validate(state, rules)
		assert.Equal(t, []string{"rows"}, failedFields(t, err))
	})
}

/*
TestPayload covers the submission projections.
*/
func TestPayload(t *testing.T) {
	row := completeRow("WGS")
	row.Meta = &dataentry.RowMeta{ParticipantColumnsDisabled: true}
	state := dataentry.NewState([]dataentry.Row{row}, []string{"C4R", "SK"}, nil, dataentry.DefaultRules())

	payload := dataentry.Payload(state)
	require.Len(t, payload, 1)
	assert.Equal(t, "FAM1", payload[0]["family_codename"])
	assert.Len(t, payload[0], len(dataentry.Fields()))
	assert.NotContains(t, payload[0], "meta")

	assert.Equal(t, url.Values{"groups": {"C4R,SK"}}, dataentry.GroupsQuery(state))
	assert.Empty(t, dataentry.GroupsQuery(dataentry.State{}))

	submittable := dataentry.SubmittableRows(state)
	require.Len(t, submittable, 1)
	assert.Nil(t, submittable[0].Meta)
	assert.NotNil(t, state.Rows[0].Meta)
}
