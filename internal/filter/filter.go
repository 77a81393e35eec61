// Package filter derives the displayed subset of a task collection. It is
// a pure projection: the source slice is never mutated and the server's
// ordering is preserved.
package filter

import (
	"strings"

	"github.com/WendelRafael/todo-go/internal/models"
)

type Status int

const (
	All Status = iota
	Pending
	Completed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// Query combines the status filter with the two free-text search fields of
// the list screen. Empty terms match everything.
type Query struct {
	Status   Status
	Term     string
	DateTerm string
}

// Apply returns the ordered subsequence of tasks matching q.
func Apply(tasks []models.Task, q Query) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single task passes the query. Text matching is
// a case-insensitive substring test against title or description; the date
// term matches against the date field, so a task without a date only
// passes when the date term is empty.
func Matches(t models.Task, q Query) bool {
	switch q.Status {
	case Pending:
		if t.Completed {
			return false
		}
	case Completed:
		if !t.Completed {
			return false
		}
	}

	if term := strings.ToLower(q.Term); term != "" {
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}

	if dateTerm := strings.ToLower(q.DateTerm); dateTerm != "" {
		if !strings.Contains(strings.ToLower(t.Date), dateTerm) {
			return false
		}
	}

	return true
}
