package schema

// CoreTissueSampleTable represents the 'core.tissuesample' table
type CoreTissueSampleTable struct {
	Table              string
	ID                 string
	ParticipantID      string
	SampleType         string
	ExtractionProtocol string
	CreatedAt          string
}

// CoreTissueSample is the schema definition for core.tissuesample
var CoreTissueSample = CoreTissueSampleTable{
	Table:              "core.tissuesample",
	ID:                 "id",
	ParticipantID:      "participantid",
	SampleType:         "sampletype",
	ExtractionProtocol: "extractionprotocol",
	CreatedAt:          "createdat",
}

func (t CoreTissueSampleTable) Columns() []string {
	return []string{t.ID, t.ParticipantID, t.SampleType, t.ExtractionProtocol, t.CreatedAt}
}
