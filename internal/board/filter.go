package board

import (
	"fmt"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Blocked reports whether t depends on a task that is still open.
// Dependencies that no longer exist count as satisfied so dependents stay
// recoverable after a delete.
func (b *Board) Blocked(t *task.Task) bool {
	for _, id := range t.DependsOn {
		dep, ok := b.Get(id)
		if !ok {
			continue
		}
		if !dep.Completed && !dep.Archived {
			return true
		}
	}
	return false
}

// Unblocked returns the tasks in candidates that are not Blocked,
// preserving order.
func (b *Board) Unblocked(candidates []*task.Task) []*task.Task {
	var out []*task.Task
	for _, t := range candidates {
		if !b.Blocked(t) {
			out = append(out, t)
		}
	}
	return out
}

// Dependents returns human-readable messages for tasks that depend on id.
// Used to warn before deleting a task.
func (b *Board) Dependents(id string) []string {
	var msgs []string
	for _, t := range b.tasks {
		for _, dep := range t.DependsOn {
			if dep == id {
				msgs = append(msgs, fmt.Sprintf("task %s (%s) depends on this task", t.ID, t.Title))
				break
			}
		}
	}
	return msgs
}
