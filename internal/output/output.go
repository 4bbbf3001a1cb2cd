// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the format selected by flags, falling back to env (the
// EFFORT_OUTPUT value). Default is table when nothing is set.
func Detect(jsonFlag, tableFlag, compactFlag bool, env string) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch env {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}

	return FormatTable
}

// Directory resolves tag and person IDs to display names.
type Directory interface {
	Tag(id string) (task.Tag, bool)
	Person(id string) (task.Person, bool)
}

// ShortIDLen is how many ID characters listings show. Any unique prefix
// is accepted back on the command line.
const ShortIDLen = 12

// ShortID truncates a task ID for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// TagNames returns the display names of t's tags. Unknown IDs are shown as-is.
func TagNames(t *task.Task, dir Directory) []string {
	names := make([]string, 0, len(t.TagIDs))
	for _, id := range t.TagIDs {
		if tag, ok := lookupTag(dir, id); ok {
			names = append(names, tag.Name)
			continue
		}
		names = append(names, id)
	}
	return names
}

// PersonNames returns the display names of t's people.
func PersonNames(t *task.Task, dir Directory) []string {
	names := make([]string, 0, len(t.PersonIDs))
	for _, id := range t.PersonIDs {
		if dir != nil {
			if p, ok := dir.Person(id); ok {
				names = append(names, p.Name)
				continue
			}
		}
		names = append(names, id)
	}
	return names
}

func lookupTag(dir Directory, id string) (task.Tag, bool) {
	if dir == nil {
		return task.Tag{}, false
	}
	return dir.Tag(id)
}
