package models

// Task is a server-owned to-do item. The server assigns IDs on creation;
// the client never fabricates or changes them.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// The deployed API names the date field "data". Keep the wire name so
	// existing servers keep working.
	Date      string `json:"data"`
	Completed bool   `json:"completed"`
}

// TaskPatch describes a partial update. Nil fields are omitted from the
// request body and left untouched server-side.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"data,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Completed == nil
}

// StringPtr is a convenience for building patches.
func StringPtr(s string) *string { return &s }

// BoolPtr is a convenience for building patches.
func BoolPtr(b bool) *bool { return &b }
