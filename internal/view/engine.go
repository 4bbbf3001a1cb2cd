// Package view decides which tasks are visible for a view mode, a set of
// filters and a search term. It never fetches, persists or mutates tasks.
package view

import (
	"slices"
	"strings"
	"time"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Provider supplies the task collection the engine works on. Every call
// returns the provider's current snapshot.
type Provider interface {
	Tasks() []*task.Task
	CompletedNonArchived() []*task.Task
	Archived() []*task.Task
	Tag(id string) (task.Tag, bool)
}

// Filters holds the orthogonal filter selections. They only apply in the
// Active and Today views.
type Filters struct {
	Priorities []task.Priority `json:"priorities,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	People     []string        `json:"people,omitempty"`
	Due        DueFilter       `json:"due"`
	GoLive     bool            `json:"go_live,omitempty"`
}

// State is a snapshot of the engine selections for UI reflection.
type State struct {
	Mode    Mode    `json:"mode"`
	Filters Filters `json:"filters"`
	Search  string  `json:"search,omitempty"`
}

// Engine holds view, filter and search state and recomputes the visible
// task list on every call. It is not safe for concurrent use.
type Engine struct {
	provider Provider
	now      func() time.Time

	mode    Mode
	filters Filters
	search  string
}

// New creates an engine in the Active view with no filters.
func New(p Provider, search string) *Engine {
	return &Engine{
		provider: p,
		now:      time.Now,
		mode:     ModeActive,
		filters:  Filters{Due: DueAll},
		search:   search,
	}
}

// SetNow replaces the clock used for day comparisons.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// SetProvider swaps the task source, e.g. after a reload. Selections are kept.
func (e *Engine) SetProvider(p Provider) {
	e.provider = p
}

// Mode returns the current view mode.
func (e *Engine) Mode() Mode { return e.mode }

// ShowAllActive switches to the Active view.
func (e *Engine) ShowAllActive() { e.mode = ModeActive }

// ShowToday switches to the Today view, or back to Active if already there.
func (e *Engine) ShowToday() { e.toggleMode(ModeToday) }

// ShowCompleted switches to the Completed view, or back to Active if already there.
func (e *Engine) ShowCompleted() { e.toggleMode(ModeCompleted) }

// ShowArchived switches to the Archived view, or back to Active if already there.
func (e *Engine) ShowArchived() { e.toggleMode(ModeArchived) }

// Show dispatches to the setter for m.
func (e *Engine) Show(m Mode) {
	switch m {
	case ModeToday:
		e.ShowToday()
	case ModeCompleted:
		e.ShowCompleted()
	case ModeArchived:
		e.ShowArchived()
	default:
		e.ShowAllActive()
	}
}

func (e *Engine) toggleMode(m Mode) {
	if e.mode == m {
		e.mode = ModeActive
		return
	}
	e.mode = m
}

// SearchTerm returns the current search term.
func (e *Engine) SearchTerm() string { return e.search }

// SetSearchTerm replaces the search term. An empty term disables search.
func (e *Engine) SetSearchTerm(term string) {
	e.search = term
}

// TogglePriority adds p to the priority filter, or removes it if present.
func (e *Engine) TogglePriority(p task.Priority) error {
	if err := task.ValidatePriority(p); err != nil {
		return err
	}
	e.filters.Priorities = toggle(e.filters.Priorities, p)
	return nil
}

// ToggleTag adds the tag ID to the tag filter, or removes it if present.
func (e *Engine) ToggleTag(id string) error {
	if id == "" {
		return clierr.New(clierr.InvalidInput, "tag ID is required")
	}
	e.filters.Tags = toggle(e.filters.Tags, id)
	return nil
}

// TogglePerson adds the person ID to the person filter, or removes it if present.
func (e *Engine) TogglePerson(id string) error {
	if id == "" {
		return clierr.New(clierr.InvalidInput, "person ID is required")
	}
	e.filters.People = toggle(e.filters.People, id)
	return nil
}

// SetFilterByDueDate selects the due-date filter.
func (e *Engine) SetFilterByDueDate(f DueFilter) error {
	if !f.Valid() {
		return invalidDueFilter(string(f))
	}
	e.filters.Due = f
	return nil
}

// SetFilterByGoLive enables or disables the go-live-today filter.
func (e *Engine) SetFilterByGoLive(on bool) {
	e.filters.GoLive = on
}

// ClearAllFilters resets every filter. The view mode and search term are kept.
func (e *Engine) ClearAllFilters() {
	e.filters = Filters{Due: DueAll}
}

// State returns a copy of the current selections.
func (e *Engine) State() State {
	return State{
		Mode: e.mode,
		Filters: Filters{
			Priorities: slices.Clone(e.filters.Priorities),
			Tags:       slices.Clone(e.filters.Tags),
			People:     slices.Clone(e.filters.People),
			Due:        e.filters.Due,
			GoLive:     e.filters.GoLive,
		},
		Search: e.search,
	}
}

// ActiveFilterCount is the badge number shown next to the filter control.
// The search term counts as one filter.
func (e *Engine) ActiveFilterCount() int {
	n := len(e.filters.Priorities) + len(e.filters.Tags) + len(e.filters.People)
	if e.filters.Due != DueAll {
		n++
	}
	if e.filters.GoLive {
		n++
	}
	if e.search != "" {
		n++
	}
	return n
}

// TaskByID looks id up in the full, unfiltered collection.
func (e *Engine) TaskByID(id string) (*task.Task, bool) {
	if e.provider == nil {
		return nil, false
	}
	for _, t := range e.provider.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// VisibleTasks returns the tasks visible for the current selections, in
// the order the provider supplied them.
func (e *Engine) VisibleTasks() []*task.Task {
	return e.visibleAt(e.now())
}

// visibleAt runs the pipeline against a single reading of the clock.
func (e *Engine) visibleAt(now time.Time) []*task.Task {
	if e.provider == nil {
		return nil
	}

	visible := e.baseList(now)
	if e.search != "" {
		visible = filter(visible, e.matchesSearch)
	}
	if e.mode == ModeCompleted || e.mode == ModeArchived {
		return visible
	}
	return filter(visible, func(t *task.Task) bool {
		return e.matchesFilters(t, now)
	})
}

// Groups buckets the visible tasks by target deadline. Tasks skipped for
// malformed dates are returned separately so the caller can report them.
// In the Completed and Archived views there are no groups; render
// VisibleTasks as a flat list instead.
func (e *Engine) Groups() ([]bucket.Bucket, []*task.Task) {
	if e.mode == ModeCompleted || e.mode == ModeArchived {
		return nil, nil
	}
	now := e.now()
	visible := e.visibleAt(now)
	return bucket.GroupByDate(visible, now), bucket.InvalidDates(visible)
}

func (e *Engine) baseList(now time.Time) []*task.Task {
	switch e.mode {
	case ModeCompleted:
		return slices.Clone(e.provider.CompletedNonArchived())
	case ModeArchived:
		return slices.Clone(e.provider.Archived())
	case ModeToday:
		return filter(e.provider.Tasks(), func(t *task.Task) bool {
			return t.Active() && (onDay(t.DueDate, now) ||
				onDay(t.GoLiveDate, now) ||
				onDay(t.TargetDeadline, now))
		})
	default:
		return filter(e.provider.Tasks(), (*task.Task).Active)
	}
}

func (e *Engine) matchesSearch(t *task.Task) bool {
	term := strings.ToLower(e.search)
	if strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, id := range t.TagIDs {
		if tag, ok := e.provider.Tag(id); ok && strings.Contains(strings.ToLower(tag.Name), term) {
			return true
		}
	}
	return false
}

func (e *Engine) matchesFilters(t *task.Task, now time.Time) bool {
	f := e.filters
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, t.HasTag) {
		return false
	}
	if len(f.People) > 0 && !slices.ContainsFunc(f.People, t.HasPerson) {
		return false
	}
	if !f.Due.Match(t, now) {
		return false
	}
	if f.GoLive && !onDay(t.GoLiveDate, now) {
		return false
	}
	return true
}

// dayOf returns the calendar day of in as seen from now's location.
func dayOf(in *date.Instant, now time.Time) (date.Date, bool) {
	if in == nil || !in.Valid() {
		return date.Date{}, false
	}
	return in.Day(now.Location()), true
}

func onDay(in *date.Instant, now time.Time) bool {
	day, ok := dayOf(in, now)
	return ok && day.Equal(date.FromTime(now).Time)
}

func filter(tasks []*task.Task, keep func(*task.Task) bool) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
