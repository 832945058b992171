// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

// Column describes one field of the data entry table.
//
// Hidden, Required and Disabled are derived by [ApplyRequirements] after every
// structural change. Hidden may also be flipped by [ToggleColumnHidden] until
// the next evaluation that touches it.
type Column struct {
	Field    Field  `json:"field"`
	Title    string `json:"title"`
	Hidden   bool   `json:"hidden"`
	Required bool   `json:"required"`
	Disabled bool   `json:"disabled"`
}

var columnTitles = map[Field]string{
	FieldFamilyCodename:      "Family",
	FieldParticipantCodename: "Participant",
	FieldParticipantType:     "Participant Type",
	FieldTissueSampleType:    "Tissue Sample Type",
	FieldDatasetType:         "Dataset Type",
	FieldCondition:           "Condition",
	FieldSequencingDate:      "Sequencing Date",
	FieldSex:                 "Sex",
	FieldAffected:            "Affected",
	FieldSolved:              "Solved",
	FieldInstitution:         "Institution",
	FieldNotes:               "Notes",
	FieldExtractionProtocol:  "Extraction Protocol",
	FieldCaptureKit:          "Capture Kit",
	FieldLibraryPrepMethod:   "Library Prep Method",
	FieldReadLength:          "Read Length",
	FieldReadType:            "Read Type",
	FieldSequencingCentre:    "Sequencing Centre",
	FieldBatchID:             "Batch ID",
	FieldVCFAvailable:        "VCF Available",
	FieldCandidateGenes:      "Candidate Genes",
	FieldRIN:                 "RIN",
	FieldDV200:               "DV200",
	FieldConcentration:       "Concentration",
	FieldSequencer:           "Sequencer",
	FieldSpikeIn:             "Spike In",
	FieldLinkedFiles:         "Linked Files",
}

// DefaultColumns returns one visible, optional, enabled column per field.
func DefaultColumns() []Column {
	columns := make([]Column, 0, len(orderedFields))
	for _, field := range orderedFields {
		columns = append(columns, Column{Field: field, Title: columnTitles[field]})
	}
	return columns
}

// Title returns the display title of a field.
func (f Field) Title() string {
	if title, ok := columnTitles[f]; ok {
		return title
	}
	return string(f)
}
