// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import "slices"

// # Row Model

// Row is one prospective metadata record being entered. On submission it
// becomes a dataset, its tissue sample, participant and family.
//
// Rows have no identity beyond their position in [State.Rows].
type Row struct {
	FamilyCodename      string       `json:"family_codename"`
	ParticipantCodename string       `json:"participant_codename"`
	ParticipantType     string       `json:"participant_type"`
	TissueSampleType    string       `json:"tissue_sample_type"`
	DatasetType         string       `json:"dataset_type"`
	Condition           string       `json:"condition"`
	SequencingDate      string       `json:"sequencing_date"`
	Sex                 string       `json:"sex"`
	Affected            *bool        `json:"affected"`
	Solved              *bool        `json:"solved"`
	Institution         string       `json:"institution"`
	Notes               string       `json:"notes"`
	ExtractionProtocol  string       `json:"extraction_protocol"`
	CaptureKit          string       `json:"capture_kit"`
	LibraryPrepMethod   string       `json:"library_prep_method"`
	ReadLength          *float64     `json:"read_length"`
	ReadType            string       `json:"read_type"`
	SequencingCentre    string       `json:"sequencing_centre"`
	BatchID             string       `json:"batch_id"`
	VCFAvailable        *bool        `json:"vcf_available"`
	CandidateGenes      string       `json:"candidate_genes"`
	RIN                 *float64     `json:"RIN"`
	DV200               *float64     `json:"DV200"`
	Concentration       *float64     `json:"concentration"`
	Sequencer           string       `json:"sequencer"`
	SpikeIn             string       `json:"spike_in"`
	LinkedFiles         []LinkedFile `json:"linked_files"`

	// Meta is nil for rows typed by the user.
	Meta *RowMeta `json:"meta,omitempty"`
}

// LinkedFile references an uploaded object. A file belongs to exactly one row.
type LinkedFile struct {
	Path string `json:"path"`
}

// RowMeta carries per-row editing state that is not submitted.
type RowMeta struct {
	// ParticipantColumnsDisabled locks the participant-identifying cells, e.g.
	// when the row was filled from an existing participant.
	ParticipantColumnsDisabled bool `json:"participant_columns_disabled"`
}

// EmptyRow returns the canonical blank row.
func EmptyRow() Row {
	return Row{LinkedFiles: []LinkedFile{}}
}

// Value returns the current value of a field. Unknown keys return nil.
func (r Row) Value(field Field) any {
	acc, ok := accessors[field]
	if !ok {
		return nil
	}
	return acc.get(&r)
}

// Set coerces value into the field's kind and stores it.
func (r *Row) Set(field Field, value any) error {
	acc, ok := accessors[field]
	if !ok {
		return ErrUnknownField
	}
	return acc.set(r, value)
}

// IsEmpty reports whether the field holds its empty default.
func (r Row) IsEmpty(field Field) bool {
	switch value := r.Value(field).(type) {
	case string:
		return value == ""
	case *float64:
		return value == nil
	case *bool:
		return value == nil
	case []LinkedFile:
		return len(value) == 0
	default:
		return true
	}
}

// Text returns a text field's value, or "" for fields of another kind.
func (r Row) Text(field Field) string {
	value, _ := r.Value(field).(string)
	return value
}

// Clone deep-copies the row so pointer fields are never shared.
func (r Row) Clone() Row {
	out := r
	out.Affected = clonePtr(r.Affected)
	out.Solved = clonePtr(r.Solved)
	out.VCFAvailable = clonePtr(r.VCFAvailable)
	out.ReadLength = clonePtr(r.ReadLength)
	out.RIN = clonePtr(r.RIN)
	out.DV200 = clonePtr(r.DV200)
	out.Concentration = clonePtr(r.Concentration)
	out.LinkedFiles = slices.Clone(r.LinkedFiles)
	out.Meta = clonePtr(r.Meta)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
