package task

import (
	"strings"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
)

// ValidatePriority checks that a priority is one of Priorities.
func ValidatePriority(p Priority) error {
	if p.Valid() {
		return nil
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", string(p)).
		WithDetails(map[string]any{
			"priority": string(p),
			"allowed":  PriorityNames(),
		})
}

// ParsePriority parses a priority name as typed on the command line,
// ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if err := ValidatePriority(p); err != nil {
		return "", err
	}
	return p, nil
}

// PriorityNames returns Priorities as plain strings.
func PriorityNames() []string {
	names := make([]string, len(Priorities))
	for i, p := range Priorities {
		names[i] = string(p)
	}
	return names
}

// ValidateDueQualifier checks that q is "on" or "by".
func ValidateDueQualifier(q DueQualifier) error {
	if q == DueOn || q == DueBy {
		return nil
	}
	return clierr.Newf(clierr.InvalidDueQualifier, "invalid due qualifier %q (expected on or by)", string(q)).
		WithDetails(map[string]any{"qualifier": string(q)})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLIError for an empty or malformed task ID.
func ValidateTaskID(input string) error {
	if strings.TrimSpace(input) == "" {
		return clierr.New(clierr.InvalidInput, "task ID is required")
	}
	return nil
}

// ValidateRefs checks that every id is a key of known. code selects the
// error reported for the first unknown reference (UnknownTag or UnknownPerson).
func ValidateRefs[V any](code, kind string, ids []string, known map[string]V) error {
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return clierr.Newf(code, "unknown %s %q", kind, id).
				WithDetails(map[string]any{kind: id})
		}
	}
	return nil
}

// ValidateDependencies checks that dependencies exist and none is self-referencing.
func ValidateDependencies(selfID string, deps []string, exists func(string) bool) error {
	for _, dep := range deps {
		if dep == selfID {
			return clierr.Newf(clierr.SelfReference, "task cannot depend on itself (%s)", dep).
				WithDetails(map[string]any{"id": dep})
		}
		if !exists(dep) {
			return clierr.Newf(clierr.DependencyNotFound, "dependency task %s not found", dep).
				WithDetails(map[string]any{"id": dep})
		}
	}
	return nil
}
