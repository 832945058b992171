package schema

// CoreFamilyTable represents the 'core.family' table
type CoreFamilyTable struct {
	Table     string
	ID        string
	Codename  string
	CreatedAt string
}

// CoreFamily is the schema definition for core.family
var CoreFamily = CoreFamilyTable{
	Table:     "core.family",
	ID:        "id",
	Codename:  "codename",
	CreatedAt: "createdat",
}

func (t CoreFamilyTable) Columns() []string {
	return []string{t.ID, t.Codename, t.CreatedAt}
}
