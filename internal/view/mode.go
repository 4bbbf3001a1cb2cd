package view

import (
	"strings"
	"time"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Mode is the mutually exclusive view selection.
type Mode int

// View modes.
const (
	ModeActive Mode = iota
	ModeToday
	ModeCompleted
	ModeArchived
)

// Modes lists every view mode.
var Modes = []Mode{ModeActive, ModeToday, ModeCompleted, ModeArchived}

var modeNames = [...]string{
	ModeActive:    "active",
	ModeToday:     "today",
	ModeCompleted: "completed",
	ModeArchived:  "archived",
}

func (m Mode) String() string {
	if m < ModeActive || m > ModeArchived {
		return "unknown"
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Grouped reports whether the mode renders date buckets rather than a flat list.
func (m Mode) Grouped() bool {
	return m == ModeActive || m == ModeToday
}

// ParseMode parses a view name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	allowed := make([]string, len(Modes))
	for i, m := range Modes {
		if m.String() == name {
			return m, nil
		}
		allowed[i] = m.String()
	}
	return ModeActive, clierr.Newf(clierr.InvalidView, "invalid view %q", s).
		WithDetails(map[string]any{
			"view":    s,
			"allowed": allowed,
		})
}

// DueFilter narrows the Active and Today views by due date.
type DueFilter string

// Due-date filters.
const (
	DueAll       DueFilter = "all"
	DueToday     DueFilter = "today"
	DueWeek      DueFilter = "week"
	DueOverdue   DueFilter = "overdue"
	DuePast      DueFilter = "past"
	DueFuture    DueFilter = "future"
	DueNext7Days DueFilter = "next7days"
)

// DueFilters lists every due filter in the order the TUI cycles through them.
var DueFilters = []DueFilter{DueAll, DueToday, DueWeek, DueOverdue, DuePast, DueFuture, DueNext7Days}

// Valid reports whether f is a known filter.
func (f DueFilter) Valid() bool {
	for _, d := range DueFilters {
		if d == f {
			return true
		}
	}
	return false
}

// Next returns the filter after f in DueFilters, wrapping around.
func (f DueFilter) Next() DueFilter {
	for i, d := range DueFilters {
		if d == f {
			return DueFilters[(i+1)%len(DueFilters)]
		}
	}
	return DueAll
}

// ParseDueFilter parses a due filter name.
func ParseDueFilter(s string) (DueFilter, error) {
	f := DueFilter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return DueAll, invalidDueFilter(s)
	}
	return f, nil
}

func invalidDueFilter(s string) error {
	allowed := make([]string, len(DueFilters))
	for i, d := range DueFilters {
		allowed[i] = string(d)
	}
	return clierr.Newf(clierr.InvalidDueFilter, "invalid due filter %q", s).
		WithDetails(map[string]any{
			"due":     s,
			"allowed": allowed,
		})
}

// Match reports whether t passes the filter on the day of now. Only the
// due date is consulted, compared by calendar day. A task without a valid
// due date passes only DueAll.
func (f DueFilter) Match(t *task.Task, now time.Time) bool {
	if f == DueAll {
		return true
	}
	day, ok := dayOf(t.DueDate, now)
	if !ok {
		return false
	}
	today := date.FromTime(now)
	switch f {
	case DueToday:
		return day.Equal(today.Time)
	case DueWeek:
		start := today.WeekStart()
		return day.Within(start, start.AddDays(6)) //nolint:mnd // Monday..Sunday
	case DueOverdue:
		return !t.Completed && day.Before(today.Time)
	case DuePast:
		return day.Before(today.Time)
	case DueFuture:
		return day.After(today.Time)
	case DueNext7Days:
		return day.Within(today, today.AddDays(6)) //nolint:mnd // today plus six days
	default:
		return false
	}
}
