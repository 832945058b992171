// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dataset persists submitted metadata batches and serves them back.

A submitted row becomes four records: the family (upserted by codename), the
participant (upserted by family and codename), a new tissue sample and a new
dataset. Linked files and permission group grants hang off the dataset.
Non-admin callers only ever see datasets shared with one of their groups.
*/
package dataset

import "time"

// # Domain Models

// Dataset is one sequencing dataset joined with its sample, participant and family.
type Dataset struct {
	ID                  string    `json:"id"`
	TissueSampleID      string    `json:"tissue_sample_id"`
	TissueSampleType    string    `json:"tissue_sample_type"`
	ExtractionProtocol  string    `json:"extraction_protocol,omitempty"`
	ParticipantID       string    `json:"participant_id"`
	ParticipantCodename string    `json:"participant_codename"`
	FamilyCodename      string    `json:"family_codename"`
	DatasetType         string    `json:"dataset_type"`
	Condition           string    `json:"condition"`
	SequencingDate      string    `json:"sequencing_date"`
	CaptureKit          string    `json:"capture_kit,omitempty"`
	LibraryPrepMethod   string    `json:"library_prep_method,omitempty"`
	ReadLength          *int      `json:"read_length"`
	ReadType            string    `json:"read_type,omitempty"`
	SequencingCentre    string    `json:"sequencing_centre,omitempty"`
	BatchID             string    `json:"batch_id,omitempty"`
	VCFAvailable        *bool     `json:"vcf_available"`
	CandidateGenes      string    `json:"candidate_genes,omitempty"`
	RIN                 *float64  `json:"RIN"`
	DV200               *float64  `json:"DV200"`
	Concentration       *float64  `json:"concentration"`
	Sequencer           string    `json:"sequencer,omitempty"`
	SpikeIn             string    `json:"spike_in,omitempty"`
	LinkedFiles         []string  `json:"linked_files"`
	Groups              []string  `json:"groups"`
	CreatedBy           *string   `json:"created_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Participant is an individual within a family.
type Participant struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"family_id"`
	FamilyCodename  string    `json:"family_codename"`
	Codename        string    `json:"codename"`
	ParticipantType string    `json:"participant_type"`
	Sex             string    `json:"sex,omitempty"`
	Affected        *bool     `json:"affected"`
	Solved          *bool     `json:"solved"`
	Institution     string    `json:"institution,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	DatasetCount    int       `json:"dataset_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BulkResult is returned by the bulk endpoint.
type BulkResult struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// # Query Options

// Scope limits reads to datasets shared with Groups. The zero value is
// unrestricted and reserved for admins.
type Scope struct {
	Restricted bool
	Groups     []string
}

// Filter narrows the dataset listing.
type Filter struct {
	DatasetType   string
	GroupCode     string
	ParticipantID string
}

// ParticipantFilter narrows the participant listing.
type ParticipantFilter struct {
	Query          string
	FamilyCodename string
}

// # Constants

const (
	FieldID     = "id"
	FieldRows   = "rows"
	FieldGroups = "groups"

	// maxBulkRows caps one submission.
	maxBulkRows = 1000
)
