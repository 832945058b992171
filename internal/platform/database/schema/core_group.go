package schema

// CoreGroupTable represents the 'core.permissiongroup' table
type CoreGroupTable struct {
	Table     string
	ID        string
	Code      string
	Name      string
	CreatedAt string
}

// CoreGroup is the schema definition for core.permissiongroup
var CoreGroup = CoreGroupTable{
	Table:     "core.permissiongroup",
	ID:        "id",
	Code:      "code",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t CoreGroupTable) Columns() []string {
	return []string{t.ID, t.Code, t.Name, t.CreatedAt}
}
