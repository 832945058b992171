package schema

// CoreParticipantTable represents the 'core.participant' table
type CoreParticipantTable struct {
	Table           string
	ID              string
	FamilyID        string
	Codename        string
	ParticipantType string
	Sex             string
	Affected        string
	Solved          string
	Institution     string
	Notes           string
	CreatedAt       string
	UpdatedAt       string
}

// CoreParticipant is the schema definition for core.participant
var CoreParticipant = CoreParticipantTable{
	Table:           "core.participant",
	ID:              "id",
	FamilyID:        "familyid",
	Codename:        "codename",
	ParticipantType: "participanttype",
	Sex:             "sex",
	Affected:        "affected",
	Solved:          "solved",
	Institution:     "institution",
	Notes:           "notes",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CoreParticipantTable) Columns() []string {
	return []string{
		t.ID, t.FamilyID, t.Codename, t.ParticipantType, t.Sex, t.Affected,
		t.Solved, t.Institution, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
