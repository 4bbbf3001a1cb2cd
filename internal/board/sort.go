package board

import (
	"sort"
	"strings"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Sort fields accepted by Sort.
const (
	FieldCreated  = "created"
	FieldUpdated  = "updated"
	FieldID       = "id"
	FieldTitle    = "title"
	FieldPriority = "priority"
	FieldDue      = "due"
	FieldDeadline = "deadline"
)

// SortFields lists every accepted sort field.
var SortFields = []string{FieldCreated, FieldUpdated, FieldID, FieldTitle, FieldPriority, FieldDue, FieldDeadline}

// Sort sorts tasks by the given field. Ties fall back to creation time, then ID.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if reverse {
			a, b = b, a
		}
		if c := compareTasks(a, b, field); c != 0 {
			return c < 0
		}
		if c := a.Created.Compare(b.Created); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareTasks(a, b *task.Task, field string) int {
	switch field {
	case FieldID:
		return strings.Compare(a.ID, b.ID)
	case FieldTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case FieldPriority:
		return a.Priority.Index() - b.Priority.Index()
	case FieldUpdated:
		return a.Updated.Compare(b.Updated)
	case FieldDue:
		return compareInstants(a.DueDate, b.DueDate)
	case FieldDeadline:
		return compareInstants(a.TargetDeadline, b.TargetDeadline)
	default:
		return a.Created.Compare(b.Created)
	}
}

// compareInstants orders missing or malformed instants last.
func compareInstants(a, b *date.Instant) int {
	aok := a != nil && a.Valid()
	bok := b != nil && b.Valid()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return a.Time().Compare(b.Time())
}
