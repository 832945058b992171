// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// # Field Keys

// Field is the closed set of keys a [Row] exposes to the data entry table.
//
// Runtime strings (JSON actions, CSV headers, rule files) are converted with
// [ParseField]; everything past that boundary works with typed keys only.
type Field string

const (
	FieldFamilyCodename      Field = "family_codename"
	FieldParticipantCodename Field = "participant_codename"
	FieldParticipantType     Field = "participant_type"
	FieldTissueSampleType    Field = "tissue_sample_type"
	FieldDatasetType         Field = "dataset_type"
	FieldCondition           Field = "condition"
	FieldSequencingDate      Field = "sequencing_date"
	FieldSex                 Field = "sex"
	FieldAffected            Field = "affected"
	FieldSolved              Field = "solved"
	FieldInstitution         Field = "institution"
	FieldNotes               Field = "notes"
	FieldExtractionProtocol  Field = "extraction_protocol"
	FieldCaptureKit          Field = "capture_kit"
	FieldLibraryPrepMethod   Field = "library_prep_method"
	FieldReadLength          Field = "read_length"
	FieldReadType            Field = "read_type"
	FieldSequencingCentre    Field = "sequencing_centre"
	FieldBatchID             Field = "batch_id"
	FieldVCFAvailable        Field = "vcf_available"
	FieldCandidateGenes      Field = "candidate_genes"
	FieldRIN                 Field = "RIN"
	FieldDV200               Field = "DV200"
	FieldConcentration       Field = "concentration"
	FieldSequencer           Field = "sequencer"
	FieldSpikeIn             Field = "spike_in"
	FieldLinkedFiles         Field = "linked_files"
)

// Kind classifies the value a field holds.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindFlag
	KindFiles
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindFlag:
		return "boolean"
	case KindFiles:
		return "file list"
	default:
		return "unknown"
	}
}

// accessor reads and writes one field of a [Row] without reflection.
type accessor struct {
	kind Kind
	get  func(row *Row) any
	set  func(row *Row, value any) error
}

// orderedFields lists every field in table order. It drives default columns,
// payload flattening and CSV export.
var orderedFields = []Field{
	FieldFamilyCodename,
	FieldParticipantCodename,
	FieldParticipantType,
	FieldTissueSampleType,
	FieldDatasetType,
	FieldCondition,
	FieldSequencingDate,
	FieldSex,
	FieldAffected,
	FieldSolved,
	FieldInstitution,
	FieldNotes,
	FieldExtractionProtocol,
	FieldCaptureKit,
	FieldLibraryPrepMethod,
	FieldReadLength,
	FieldReadType,
	FieldSequencingCentre,
	FieldBatchID,
	FieldVCFAvailable,
	FieldCandidateGenes,
	FieldRIN,
	FieldDV200,
	FieldConcentration,
	FieldSequencer,
	FieldSpikeIn,
	FieldLinkedFiles,
}

var accessors = map[Field]accessor{
	FieldFamilyCodename:      textField(func(r *Row) *string { return &r.FamilyCodename }),
	FieldParticipantCodename: textField(func(r *Row) *string { return &r.ParticipantCodename }),
	FieldParticipantType:     textField(func(r *Row) *string { return &r.ParticipantType }),
	FieldTissueSampleType:    textField(func(r *Row) *string { return &r.TissueSampleType }),
	FieldDatasetType:         textField(func(r *Row) *string { return &r.DatasetType }),
	FieldCondition:           textField(func(r *Row) *string { return &r.Condition }),
	FieldSequencingDate:      textField(func(r *Row) *string { return &r.SequencingDate }),
	FieldSex:                 textField(func(r *Row) *string { return &r.Sex }),
	FieldAffected:            flagField(func(r *Row) **bool { return &r.Affected }),
	FieldSolved:              flagField(func(r *Row) **bool { return &r.Solved }),
	FieldInstitution:         textField(func(r *Row) *string { return &r.Institution }),
	FieldNotes:               textField(func(r *Row) *string { return &r.Notes }),
	FieldExtractionProtocol:  textField(func(r *Row) *string { return &r.ExtractionProtocol }),
	FieldCaptureKit:          textField(func(r *Row) *string { return &r.CaptureKit }),
	FieldLibraryPrepMethod:   textField(func(r *Row) *string { return &r.LibraryPrepMethod }),
	FieldReadLength:          numberField(func(r *Row) **float64 { return &r.ReadLength }),
	FieldReadType:            textField(func(r *Row) *string { return &r.ReadType }),
	FieldSequencingCentre:    textField(func(r *Row) *string { return &r.SequencingCentre }),
	FieldBatchID:             textField(func(r *Row) *string { return &r.BatchID }),
	FieldVCFAvailable:        flagField(func(r *Row) **bool { return &r.VCFAvailable }),
	FieldCandidateGenes:      textField(func(r *Row) *string { return &r.CandidateGenes }),
	FieldRIN:                 numberField(func(r *Row) **float64 { return &r.RIN }),
	FieldDV200:               numberField(func(r *Row) **float64 { return &r.DV200 }),
	FieldConcentration:       numberField(func(r *Row) **float64 { return &r.Concentration }),
	FieldSequencer:           textField(func(r *Row) *string { return &r.Sequencer }),
	FieldSpikeIn:             textField(func(r *Row) *string { return &r.SpikeIn }),
	FieldLinkedFiles: {
		kind: KindFiles,
		get:  func(r *Row) any { return r.LinkedFiles },
		set: func(r *Row, value any) error {
			files, err := coerceFiles(value)
			if err != nil {
				return err
			}
			r.LinkedFiles = files
			return nil
		},
	},
}

// Fields returns every field key in table order.
func Fields() []Field {
	out := make([]Field, len(orderedFields))
	copy(out, orderedFields)
	return out
}

// ParseField validates a runtime string against the closed field set.
func ParseField(raw string) (Field, error) {
	field := Field(strings.TrimSpace(raw))
	if _, ok := accessors[field]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
	return field, nil
}

// Kind reports the value kind of the field. Unknown keys report [KindText].
func (f Field) Kind() Kind {
	return accessors[f].kind
}

// # Coercion

func textField(ref func(*Row) *string) accessor {
	return accessor{
		kind: KindText,
		get:  func(r *Row) any { return *ref(r) },
		set: func(r *Row, value any) error {
			switch typed := value.(type) {
			case nil:
				*ref(r) = ""
			case string:
				*ref(r) = typed
			default:
				return fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, value)
			}
			return nil
		},
	}
}

func numberField(ref func(*Row) **float64) accessor {
	return accessor{
		kind: KindNumber,
		get:  func(r *Row) any { return *ref(r) },
		set: func(r *Row, value any) error {
			number, err := coerceNumber(value)
			if err != nil {
				return err
			}
			*ref(r) = number
			return nil
		},
	}
}

func flagField(ref func(*Row) **bool) accessor {
	return accessor{
		kind: KindFlag,
		get:  func(r *Row) any { return *ref(r) },
		set: func(r *Row, value any) error {
			flag, err := coerceFlag(value)
			if err != nil {
				return err
			}
			*ref(r) = flag
			return nil
		},
	}
}

func coerceNumber(value any) (*float64, error) {
	var number float64
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *float64:
		if typed == nil {
			return nil, nil
		}
		number = *typed
	case float64:
		number = typed
	case float32:
		number = float64(typed)
	case int:
		number = float64(typed)
	case int64:
		number = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, typed)
		}
		number = parsed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, typed)
		}
		number = parsed
	default:
		return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)
	}
	// Sessions are stored as JSON, which has no NaN or Inf.
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, fmt.Errorf("%w: %v is not a finite number", ErrInvalidValue, number)
	}
	return &number, nil
}

func coerceFlag(value any) (*bool, error) {
	var flag bool
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *bool:
		if typed == nil {
			return nil, nil
		}
		flag = *typed
	case bool:
		flag = typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "":
			return nil, nil
		case "true", "yes", "y", "1":
			flag = true
		case "false", "no", "n", "0":
			flag = false
		default:
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, typed)
		}
	default:
		return nil, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, value)
	}
	return &flag, nil
}

// linkedFileSeparator joins multiple file paths inside one CSV cell.
const linkedFileSeparator = "|"

func coerceFiles(value any) ([]LinkedFile, error) {
	switch typed := value.(type) {
	case nil:
		return []LinkedFile{}, nil
	case []LinkedFile:
		out := make([]LinkedFile, len(typed))
		copy(out, typed)
		return out, nil
	case []string:
		out := make([]LinkedFile, 0, len(typed))
		for _, path := range typed {
			if path = strings.TrimSpace(path); path != "" {
				out = append(out, LinkedFile{Path: path})
			}
		}
		return out, nil
	case string:
		return coerceFiles(strings.Split(typed, linkedFileSeparator))
	case []any:
		out := make([]LinkedFile, 0, len(typed))
		for _, item := range typed {
			switch entry := item.(type) {
			case string:
				if path := strings.TrimSpace(entry); path != "" {
					out = append(out, LinkedFile{Path: path})
				}
			case map[string]any:
				path, ok := entry["path"].(string)
				path = strings.TrimSpace(path)
				if !ok || path == "" {
					return nil, fmt.Errorf("%w: linked file entry without path", ErrInvalidValue)
				}
				out = append(out, LinkedFile{Path: path})
			default:
				return nil, fmt.Errorf("%w: unexpected linked file entry %T", ErrInvalidValue, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected file list, got %T", ErrInvalidValue, value)
	}
}
