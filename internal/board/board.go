// Package board assembles a loaded snapshot of the planner's tasks and
// offers the lookups the view engine and commands need.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Board is an immutable snapshot of every task plus the tag and person
// directory. Reloading produces a new Board.
type Board struct {
	name     string
	tasks    []*task.Task
	tags     map[string]task.Tag
	people   map[string]task.Person
	warnings []task.ReadWarning
}

// Load reads every task from src and indexes it against cfg's directory.
// Malformed tasks are logged and kept out of the snapshot.
func Load(ctx context.Context, cfg *config.Config, src Source) (*Board, error) {
	tasks, warnings, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	for _, w := range warnings {
		slog.Warn("skipping malformed task", "file", w.File, "error", w.Err)
	}
	return New(cfg, tasks, warnings), nil
}

// New builds a board from an already loaded task list.
func New(cfg *config.Config, tasks []*task.Task, warnings []task.ReadWarning) *Board {
	sorted := append([]*task.Task(nil), tasks...)
	Sort(sorted, FieldCreated, false)
	return &Board{
		name:     cfg.Planner.Name,
		tasks:    sorted,
		tags:     cfg.TagMap(),
		people:   cfg.PersonMap(),
		warnings: warnings,
	}
}

// Name returns the planner name.
func (b *Board) Name() string { return b.name }

// Tasks returns every task, ordered by creation time.
func (b *Board) Tasks() []*task.Task { return b.tasks }

// CompletedNonArchived returns every completed task that is not archived,
// regardless of when it was completed.
func (b *Board) CompletedNonArchived() []*task.Task {
	return b.where(func(t *task.Task) bool { return t.Completed && !t.Archived })
}

// Archived returns every archived task.
func (b *Board) Archived() []*task.Task {
	return b.where(func(t *task.Task) bool { return t.Archived })
}

// CompletedToday returns non-archived tasks completed on the day of now.
func (b *Board) CompletedToday(now time.Time) []*task.Task {
	today := date.FromTime(now)
	return b.where(func(t *task.Task) bool {
		if !t.Completed || t.Archived || t.CompletedDate == nil {
			return false
		}
		return date.FromTime(t.CompletedDate.In(now.Location())).Equal(today.Time)
	})
}

// Tag looks up a tag by ID.
func (b *Board) Tag(id string) (task.Tag, bool) {
	t, ok := b.tags[id]
	return t, ok
}

// Person looks up a person by ID.
func (b *Board) Person(id string) (task.Person, bool) {
	p, ok := b.people[id]
	return p, ok
}

// Warnings returns the files or rows skipped while loading.
func (b *Board) Warnings() []task.ReadWarning { return b.warnings }

// Get returns the task with exactly the given ID.
func (b *Board) Get(id string) (*task.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Exists reports whether a task with exactly the given ID exists.
func (b *Board) Exists(id string) bool {
	_, ok := b.Get(id)
	return ok
}

// Resolve finds a task by a case-insensitive, unique ID prefix.
func (b *Board) Resolve(prefix string) (*task.Task, error) {
	if err := task.ValidateTaskID(prefix); err != nil {
		return nil, err
	}
	p := strings.ToUpper(strings.TrimSpace(prefix))
	var matches []*task.Task
	for _, t := range b.tasks {
		if strings.HasPrefix(strings.ToUpper(t.ID), p) {
			if len(t.ID) == len(p) {
				return t, nil
			}
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", prefix).
			WithDetails(map[string]any{"id": prefix})
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, t := range matches {
			ids[i] = t.ID
		}
		return nil, clierr.Newf(clierr.AmbiguousTaskID, "task ID prefix %q matches %d tasks", prefix, len(matches)).
			WithDetails(map[string]any{"id": prefix, "matches": ids})
	}
}

// ReportSkipped logs one warning per task left out of date grouping.
func ReportSkipped(skipped []*task.Task) {
	for _, t := range skipped {
		slog.Warn("skipping task with malformed date", "id", t.ID, "title", t.Title)
	}
}

// Overview is the aggregate planner summary.
type Overview struct {
	Planner    string          `json:"planner"`
	TotalTasks int             `json:"total_tasks"`
	Active     int             `json:"active"`
	Completed  int             `json:"completed"`
	Archived   int             `json:"archived"`
	Overdue    int             `json:"overdue"`
	DoneToday  int             `json:"done_today"`
	Priorities []PriorityCount `json:"priorities"`
}

// PriorityCount holds the number of active tasks at a priority.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// Summary counts tasks by lifecycle state and active tasks by priority.
func (b *Board) Summary(now time.Time) Overview {
	ov := Overview{Planner: b.name, TotalTasks: len(b.tasks)}
	prio := make(map[task.Priority]int, len(task.Priorities))
	for _, t := range b.tasks {
		switch {
		case t.Archived:
			ov.Archived++
		case t.Completed:
			ov.Completed++
		default:
			ov.Active++
			prio[t.Priority]++
			if bucket.HasValidDates(t) && bucket.Classify(t, now) == bucket.Overdue {
				ov.Overdue++
			}
		}
	}
	ov.DoneToday = len(b.CompletedToday(now))
	ov.Priorities = make([]PriorityCount, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: p, Count: prio[p]})
	}
	return ov
}

func (b *Board) where(keep func(*task.Task) bool) []*task.Task {
	var out []*task.Task
	for _, t := range b.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
