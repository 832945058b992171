// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/validate"
)

// # Vocabularies

var (
	ParticipantTypes  = []string{"Proband", "Mother", "Father", "Sibling", "Other"}
	TissueSampleTypes = []string{"Blood", "Saliva", "Lymphocyte", "Fibroblast", "Muscle", "Skin", "Urine", "Plasma", "Kidney", "Liver", "Unknown"}
	DatasetTypes      = []string{"CES", "CGS", "CPS", "RES", "RGS", "RLM", "RMM", "RRS", "RTA", "RDC", "RDE", "WES", "WGS"}
	Conditions        = []string{"GermLine", "Somatic", "Control"}
	Sexes             = []string{"Male", "Female", "Other", "Unknown"}
)

var vocabularies = map[Field][]string{
	FieldParticipantType:  ParticipantTypes,
	FieldTissueSampleType: TissueSampleTypes,
	FieldDatasetType:      DatasetTypes,
	FieldCondition:        Conditions,
	FieldSex:              Sexes,
}

// SequencingDateLayout is the accepted sequencing date format.
const SequencingDateLayout = "2006-01-02"

/*
Validate checks the table before submission.

Every required and unlocked cell must be filled unless a rule hides its
column. A column hidden by hand stays required. Enumerated fields
must hold a vocabulary value and sequencing dates must parse. Failures are
reported per cell as "rows[i].field" in a VALIDATION_ERROR.
*/
func Validate(state State, rules []Rule) error {
	validator := &validate.Validator{}

	if len(state.Rows) == 0 {
		validator.Custom("rows", true, "At least one row is required")
	}

	// Flags are re-derived with manual hides cleared, so hiding a column in
	// the grid never lifts its requirement.
	derived := state.Clone()
	for i := range derived.Columns {
		derived.Columns[i].Hidden = false
	}
	applyRequirements(&derived, rules)

	for i, row := range derived.Rows {
		for _, column := range derived.Columns {
			cell := cellName(i, column.Field)
			locked := CellDisabled(derived, rules, i, column.Field)

			if column.Required && !column.Hidden && !locked && row.IsEmpty(column.Field) {
				validator.Custom(cell, true, "This field is required")
				continue
			}

			text := row.Text(column.Field)
			if text == "" {
				continue
			}
			if allowed, ok := vocabularies[column.Field]; ok {
				validator.OneOf(cell, text, allowed...)
			}
			if column.Field == FieldSequencingDate {
				validator.Date(cell, text, SequencingDateLayout)
			}
		}
	}

	return validator.Err()
}

func cellName(row int, field Field) string {
	return apperr.CellField(row, string(field))
}
