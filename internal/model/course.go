package model

import "encoding/json"

// Module kinds. Content shape is fully determined by the kind.
const (
	ModuleTypeInfo = "info"
	ModuleTypeTest = "test"
)

// Course represents a persisted course owned by a single user.
type Course struct {
	ID      string `db:"id" json:"id"`
	OwnerID string `db:"owner_id" json:"ownerId"`
	Name    string `db:"name" json:"name"`
}

// Module represents a persisted course module. Content holds the
// kind-specific payload exactly as stored in the jsonb column.
type Module struct {
	ID       string          `db:"id" json:"id"`
	CourseID string          `db:"course_id" json:"courseId"`
	Type     string          `db:"type" json:"type"`
	Content  json.RawMessage `db:"content" json:"content"`
}

// InfoContent is the payload of an info module.
type InfoContent struct {
	Markdown string `json:"markdown"`
}

// TestContent is the payload of a test module. CorrectIndex is always a
// valid index into Options.
type TestContent struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// GeneratedModule is one module of a generated course before persistence.
// Exactly one of Info and Test is set, matching Type.
type GeneratedModule struct {
	Type string
	Info *InfoContent
	Test *TestContent
}

// ContentJSON serializes the kind-specific payload for storage.
func (m GeneratedModule) ContentJSON() ([]byte, error) {
	if m.Type == ModuleTypeInfo {
		return json.Marshal(m.Info)
	}
	return json.Marshal(m.Test)
}

// GeneratedCourse is the validated but not yet persisted output of the
// generation pipeline. It carries no identities or ownership and lives
// only within one request.
type GeneratedCourse struct {
	CourseName string
	Modules    []GeneratedModule
}
