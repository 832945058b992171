package schema

// CoreDatasetGroupTable represents the 'core.datasetgroup' table
type CoreDatasetGroupTable struct {
	Table     string
	DatasetID string
	GroupID   string
}

// CoreDatasetGroup is the schema definition for core.datasetgroup
var CoreDatasetGroup = CoreDatasetGroupTable{
	Table:     "core.datasetgroup",
	DatasetID: "datasetid",
	GroupID:   "groupid",
}
