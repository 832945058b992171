package schema

// CoreGroupMemberTable represents the 'core.groupmember' table
type CoreGroupMemberTable struct {
	Table    string
	GroupID  string
	UserID   string
	JoinedAt string
}

// CoreGroupMember is the schema definition for core.groupmember
var CoreGroupMember = CoreGroupMemberTable{
	Table:    "core.groupmember",
	GroupID:  "groupid",
	UserID:   "userid",
	JoinedAt: "joinedat",
}

func (t CoreGroupMemberTable) Columns() []string {
	return []string{t.GroupID, t.UserID, t.JoinedAt}
}
