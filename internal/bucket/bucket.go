// Package bucket classifies tasks into ordered date groups by their target
// deadline.
package bucket

import (
	"time"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Group is a date bucket. The numeric order is the display order.
type Group int

// Groups in display order.
const (
	Overdue Group = iota
	Today
	Tomorrow
	ThisWeek
	NextWeek
	ThisMonth
	Future
	NoDate
)

// Groups lists every bucket in display order.
var Groups = []Group{Overdue, Today, Tomorrow, ThisWeek, NextWeek, ThisMonth, Future, NoDate}

var labels = [...]string{
	Overdue:   "Overdue",
	Today:     "Today",
	Tomorrow:  "Tomorrow",
	ThisWeek:  "This Week",
	NextWeek:  "Next Week",
	ThisMonth: "This Month",
	Future:    "Future",
	NoDate:    "No Date",
}

// String returns the display label of g.
func (g Group) String() string {
	if g < Overdue || g > NoDate {
		return "Unknown"
	}
	return labels[g]
}

// MarshalText renders the label so buckets serialize readably.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Bucket is one non-empty group of tasks.
type Bucket struct {
	Group Group        `json:"group"`
	Tasks []*task.Task `json:"tasks"`
}

// Classify returns the bucket for t relative to now. Only the target
// deadline is consulted; the due date never affects grouping.
func Classify(t *task.Task, now time.Time) Group {
	if t.TargetDeadline == nil || !t.TargetDeadline.Valid() {
		return NoDate
	}

	today := date.FromTime(now)
	day := t.TargetDeadline.Day(now.Location())

	// Completed tasks fall through to whatever their date otherwise matches.
	if !t.Completed && day.Before(today.Time) {
		return Overdue
	}

	weekStart := today.WeekStart()
	switch {
	case day.Equal(today.Time):
		return Today
	case day.Equal(today.AddDays(1).Time):
		return Tomorrow
	case day.Within(weekStart, weekStart.AddDays(6)): //nolint:mnd // Monday..Sunday
		return ThisWeek
	case day.Within(weekStart.AddDays(7), weekStart.AddDays(13)): //nolint:mnd // following Monday..Sunday
		return NextWeek
	case day.SameMonth(today):
		return ThisMonth
	default:
		return Future
	}
}

// HasValidDates reports whether the due date and target deadline of t are
// each absent or well-formed. Tasks failing this are left out of grouping.
func HasValidDates(t *task.Task) bool {
	if t.DueDate != nil && !t.DueDate.Valid() {
		return false
	}
	if t.TargetDeadline != nil && !t.TargetDeadline.Valid() {
		return false
	}
	return true
}

// InvalidDates returns the tasks GroupByDate would skip, in input order,
// so callers can report them.
func InvalidDates(tasks []*task.Task) []*task.Task {
	var bad []*task.Task
	for _, t := range tasks {
		if !HasValidDates(t) {
			bad = append(bad, t)
		}
	}
	return bad
}

// GroupByDate partitions tasks into non-empty buckets in display order.
// Tasks keep their input order within a bucket.
func GroupByDate(tasks []*task.Task, now time.Time) []Bucket {
	var parts [len(labels)][]*task.Task
	for _, t := range tasks {
		if !HasValidDates(t) {
			continue
		}
		g := Classify(t, now)
		parts[g] = append(parts[g], t)
	}

	var result []Bucket
	for _, g := range Groups {
		if len(parts[g]) == 0 {
			continue
		}
		result = append(result, Bucket{Group: g, Tasks: parts[g]})
	}
	return result
}
