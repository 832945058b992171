package schema

// CoreDatasetFileTable represents the 'core.datasetfile' table
type CoreDatasetFileTable struct {
	Table     string
	DatasetID string
	Path      string
}

// CoreDatasetFile is the schema definition for core.datasetfile
var CoreDatasetFile = CoreDatasetFileTable{
	Table:     "core.datasetfile",
	DatasetID: "datasetid",
	Path:      "path",
}
