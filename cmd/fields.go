package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// dateFlags maps date flag names to the task field they set.
var dateFlags = []struct {
	flag, field string
	get         func(*task.Task) **date.Instant
}{
	{"due", "due", func(t *task.Task) **date.Instant { return &t.DueDate }},
	{"deadline", "target deadline", func(t *task.Task) **date.Instant { return &t.TargetDeadline }},
	{"go-live", "go-live", func(t *task.Task) **date.Instant { return &t.GoLiveDate }},
}

// applyDates sets every date flag the user passed. With clearable, the
// matching --clear-<flag> removes the value.
func applyDates(cmd *cobra.Command, t *task.Task, clearable bool) (bool, error) {
	changed := false
	for _, df := range dateFlags {
		field := df.get(t)
		if clearable {
			if reset, _ := cmd.Flags().GetBool("clear-" + df.flag); reset {
				if *field != nil {
					*field = nil
					changed = true
				}
				continue
			}
		}
		v, _ := cmd.Flags().GetString(df.flag)
		if v == "" {
			continue
		}
		in, err := date.ParseStrict(v)
		if err != nil {
			return false, task.ValidateDate(df.field, v, err)
		}
		*field = &in
		changed = true
	}
	return changed, nil
}

// applyPriority validates and sets --priority.
func applyPriority(cmd *cobra.Command, t *task.Task) (bool, error) {
	v, _ := cmd.Flags().GetString("priority")
	if v == "" {
		return false, nil
	}
	p, err := task.ParsePriority(v)
	if err != nil {
		return false, err
	}
	if t.Priority == p {
		return false, nil
	}
	t.Priority = p
	return true, nil
}

// applyDueQualifier validates and sets --due-qualifier.
func applyDueQualifier(cmd *cobra.Command, t *task.Task) (bool, error) {
	v, _ := cmd.Flags().GetString("due-qualifier")
	if v == "" {
		return false, nil
	}
	q := task.DueQualifier(v)
	if err := task.ValidateDueQualifier(q); err != nil {
		return false, err
	}
	if t.DueQualifier == q {
		return false, nil
	}
	t.DueQualifier = q
	return true, nil
}

// resolveDeps maps ID prefixes to full task IDs and validates them.
func resolveDeps(b *board.Board, selfID string, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		dep, err := b.Resolve(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, dep.ID)
	}
	if err := task.ValidateDependencies(selfID, ids, b.Exists); err != nil {
		return nil, err
	}
	return ids, nil
}

// addAll appends the ids missing from list.
func addAll(list, ids []string) []string {
	for _, id := range ids {
		if !slices.Contains(list, id) {
			list = append(list, id)
		}
	}
	return list
}

// removeAll drops ids from list.
func removeAll(list, ids []string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(id string) bool {
		return slices.Contains(ids, id)
	})
}
