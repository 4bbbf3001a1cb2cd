package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, dir Directory) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, dir))
	}
}

// GroupedCompact renders labelled groups with indented task lines.
func GroupedCompact(w io.Writer, groups []board.Group, dir Directory) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s (%d)\n", g.Key, len(g.Tasks))
		for _, t := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(t, dir))
		}
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, dir Directory) {
	line := formatTaskLine(t, dir)
	if people := PersonNames(t, dir); len(people) > 0 {
		line += " with:" + strings.Join(people, ",")
	}
	fmt.Fprintln(w, line)

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.CompletedDate != nil {
		ts += " completed:" + t.CompletedDate.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if t.Description != "" {
		for _, bodyLine := range strings.Split(strings.TrimRight(t.Description, "\n"), "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// OverviewCompact renders a planner summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.Planner, s.TotalTasks)
	fmt.Fprintf(w, "  active: %d", s.Active)
	if s.Overdue > 0 {
		fmt.Fprintf(w, " (%d overdue)", s.Overdue)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  completed: %d (%d today)\n", s.Completed, s.DoneToday)
	fmt.Fprintf(w, "  archived: %d\n", s.Archived)

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, dir Directory) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := "[" + mark + "] " + ShortID(t.ID) + " (" + string(t.Priority) + ") " + t.Title

	if tags := TagNames(t, dir); len(tags) > 0 {
		line += " #" + strings.Join(tags, " #")
	}
	if t.DueDate != nil {
		line += " due:" + strings.ReplaceAll(dueDisplay(t), " ", "_")
	}
	if t.TargetDeadline != nil {
		line += " deadline:" + strings.ReplaceAll(instantDisplay(t.TargetDeadline), " ", "_")
	}
	if t.GoLiveDate != nil {
		line += " live:" + strings.ReplaceAll(instantDisplay(t.GoLiveDate), " ", "_")
	}

	return line
}
