// Package task handles task files and their frontmatter.
package task

import (
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
)

// Priority is one of a small fixed set of urgency levels.
type Priority string

// Priorities in descending order of urgency.
const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
	PriorityLowest Priority = "lowest"
)

// Priorities lists every valid priority, most urgent first.
var Priorities = []Priority{PriorityHigh, PriorityNormal, PriorityLow, PriorityLowest}

// Valid reports whether p is one of Priorities.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Index returns the position of p in Priorities, or len(Priorities) if unknown.
func (p Priority) Index() int {
	if i := slices.Index(Priorities, p); i >= 0 {
		return i
	}
	return len(Priorities)
}

// DueQualifier says whether a task is due on its due date or any time before it.
type DueQualifier string

// Due-date qualifiers.
const (
	DueOn DueQualifier = "on"
	DueBy DueQualifier = "by"
)

// Tag is a label a task can reference by ID.
type Tag struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Person is someone a task can reference by ID.
type Person struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Task represents a planner task parsed from a markdown file.
type Task struct {
	ID             string        `yaml:"id" json:"id"`
	Title          string        `yaml:"title" json:"title"`
	Priority       Priority      `yaml:"priority" json:"priority"`
	DueDate        *date.Instant `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	DueQualifier   DueQualifier  `yaml:"due_qualifier,omitempty" json:"due_qualifier,omitempty"`
	TargetDeadline *date.Instant `yaml:"target_deadline,omitempty" json:"target_deadline,omitempty"`
	GoLiveDate     *date.Instant `yaml:"go_live_date,omitempty" json:"go_live_date,omitempty"`
	Completed      bool          `yaml:"completed,omitempty" json:"completed"`
	CompletedDate  *time.Time    `yaml:"completed_date,omitempty" json:"completed_date,omitempty"`
	Archived       bool          `yaml:"archived,omitempty" json:"archived"`
	TagIDs         []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	PersonIDs      []string      `yaml:"people,omitempty" json:"people,omitempty"`
	DependsOn      []string      `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Created        time.Time     `yaml:"created" json:"created"`
	Updated        time.Time     `yaml:"updated" json:"updated"`

	// Description is the markdown content below the frontmatter (not in YAML).
	Description string `yaml:"-" json:"description,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// NewID returns a fresh, lexically time-ordered task ID.
func NewID() string {
	return ulid.Make().String()
}

// New creates an active task with default priority.
func New(title string, now time.Time) *Task {
	return &Task{
		ID:       NewID(),
		Title:    title,
		Priority: PriorityNormal,
		Created:  now,
		Updated:  now,
	}
}

// HasTag reports whether the task references tag id.
func (t *Task) HasTag(id string) bool {
	return slices.Contains(t.TagIDs, id)
}

// HasPerson reports whether the task references person id.
func (t *Task) HasPerson(id string) bool {
	return slices.Contains(t.PersonIDs, id)
}

// Active reports whether the task is neither completed nor archived.
func (t *Task) Active() bool {
	return !t.Completed && !t.Archived
}
