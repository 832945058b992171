package schema

// CoreDatasetTable represents the 'core.dataset' table
type CoreDatasetTable struct {
	Table             string
	ID                string
	TissueSampleID    string
	DatasetType       string
	Condition         string
	SequencingDate    string
	CaptureKit        string
	LibraryPrepMethod string
	ReadLength        string
	ReadType          string
	SequencingCentre  string
	BatchID           string
	VCFAvailable      string
	CandidateGenes    string
	RIN               string
	DV200             string
	Concentration     string
	Sequencer         string
	SpikeIn           string
	CreatedBy         string
	CreatedAt         string
	UpdatedAt         string
}

// CoreDataset is the schema definition for core.dataset
var CoreDataset = CoreDatasetTable{
	Table:             "core.dataset",
	ID:                "id",
	TissueSampleID:    "tissuesampleid",
	DatasetType:       "datasettype",
	Condition:         "condition",
	SequencingDate:    "sequencingdate",
	CaptureKit:        "capturekit",
	LibraryPrepMethod: "libraryprepmethod",
	ReadLength:        "readlength",
	ReadType:          "readtype",
	SequencingCentre:  "sequencingcentre",
	BatchID:           "batchid",
	VCFAvailable:      "vcfavailable",
	CandidateGenes:    "candidategenes",
	RIN:               "rin",
	DV200:             "dv200",
	Concentration:     "concentration",
	Sequencer:         "sequencer",
	SpikeIn:           "spikein",
	CreatedBy:         "createdby",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// InsertColumns returns the columns written by bulk creation, in bind order.
func (t CoreDatasetTable) InsertColumns() []string {
	return []string{
		t.ID, t.TissueSampleID, t.DatasetType, t.Condition, t.SequencingDate,
		t.CaptureKit, t.LibraryPrepMethod, t.ReadLength, t.ReadType, t.SequencingCentre,
		t.BatchID, t.VCFAvailable, t.CandidateGenes, t.RIN, t.DV200,
		t.Concentration, t.Sequencer, t.SpikeIn, t.CreatedBy,
	}
}

func (t CoreDatasetTable) Columns() []string {
	return append(t.InsertColumns(), t.CreatedAt, t.UpdatedAt)
}
