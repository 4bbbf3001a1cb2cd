package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Priority colors matching the TUI palette.
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		"normal": lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		"lowest": lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}

	// Date bucket header colors, keyed by label.
	groupStyles = map[string]lipgloss.Style{
		bucket.Overdue.String():  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		bucket.Today.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		bucket.Tomorrow.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		bucket.NoDate.String():   lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Bold(true),
	}

	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	personStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Italic(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
	groupStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
	personStyle = lipgloss.NewStyle()
	invalidStyle = lipgloss.NewStyle()
	plainMarkdown = true
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, dir Directory) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, prioW, titleW, tagsW, dueW, deadlineW := 4, 10, 5, 6, 12, 10
	for _, t := range tasks {
		idW = max(idW, len(ShortID(t.ID))+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50))                                //nolint:mnd // max title column width
		tagsW = max(tagsW, min(len(strings.Join(TagNames(t, dir), ","))+pad, 30))      //nolint:mnd // max tags column width
		dueW = max(dueW, len(dueDisplay(t))+pad)
		deadlineW = max(deadlineW, len(instantDisplay(t.TargetDeadline))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", prioW, "PRIORITY", titleW, "TITLE", tagsW, "TAGS",
		dueW, "DUE", deadlineW, "DEADLINE", "GO-LIVE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		fmt.Fprintln(w, taskRow(t, dir, idW, prioW, titleW, tagsW, dueW, deadlineW))
	}
}

func taskRow(t *task.Task, dir Directory, idW, prioW, titleW, tagsW, dueW, deadlineW int) string {
	title := t.Title
	const maxTitle = 48
	if len(title) > maxTitle {
		title = title[:maxTitle-3] + "..."
	}
	if t.Completed {
		title = dimStyle.Render(title)
	}
	tags := strings.Join(TagNames(t, dir), ",")
	if tags == "" {
		tags = dimStyle.Render("--")
	} else {
		tags = tagStyle.Render(tags)
	}

	row := fmt.Sprintf("%-*s %s %s %s %s %s %s",
		idW, ShortID(t.ID),
		padRight(styledValue(string(t.Priority), priorityStyles), prioW),
		padRight(title, titleW),
		padRight(tags, tagsW),
		padRight(styledInstant(dueDisplay(t), t.DueDate), dueW),
		padRight(styledInstant(instantDisplay(t.TargetDeadline), t.TargetDeadline), deadlineW),
		styledInstant(instantDisplay(t.GoLiveDate), t.GoLiveDate))
	return strings.TrimRight(row, " ")
}

// GroupedTable renders labelled task groups, one table per group.
func GroupedTable(w io.Writer, groups []board.Group, dir Directory) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d)", g.Key, len(g.Tasks))
		fmt.Fprintln(w, styledValueAs(g.Key, title, groupStyles, titleStyle))
		TaskTable(w, g.Tasks, dir)
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, t *task.Task, dir Directory, blocked bool) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", statusDisplay(t))
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	printField(w, "Due", styledInstant(dueDisplay(t), t.DueDate))
	printField(w, "Deadline", styledInstant(instantDisplay(t.TargetDeadline), t.TargetDeadline))
	printField(w, "Go-live", styledInstant(instantDisplay(t.GoLiveDate), t.GoLiveDate))
	printField(w, "Tags", listOrDash(TagNames(t, dir), tagStyle))
	printField(w, "People", listOrDash(PersonNames(t, dir), personStyle))
	if len(t.DependsOn) > 0 {
		deps := make([]string, len(t.DependsOn))
		for i, id := range t.DependsOn {
			deps[i] = ShortID(id)
		}
		line := strings.Join(deps, ", ")
		if blocked {
			line += " " + invalidStyle.Render("(blocked)")
		}
		printField(w, "Depends on", line)
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", t.Updated.Format("2006-01-02 15:04"))
	if t.CompletedDate != nil {
		printField(w, "Completed", t.CompletedDate.Format("2006-01-02 15:04"))
		printField(w, "Lead time", FormatDuration(t.CompletedDate.Sub(t.Created)))
	}

	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderMarkdown(t.Description, 0))
	}
}

// OverviewTable renders a planner summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(s.Planner))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	header := fmt.Sprintf("%-16s %6s", "STATE", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, row := range []struct {
		label string
		count int
	}{
		{"active", s.Active},
		{"overdue", s.Overdue},
		{"completed", s.Completed},
		{"done today", s.DoneToday},
		{"archived", s.Archived},
	} {
		fmt.Fprintf(w, "%-16s %6d\n", row.label, row.count)
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))

	for _, pc := range s.Priorities {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(string(pc.Priority), priorityStyles), prioColW), pc.Count)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func listOrDash(items []string, style lipgloss.Style) string {
	if len(items) == 0 {
		return dimStyle.Render("--")
	}
	return style.Render(strings.Join(items, ", "))
}

func statusDisplay(t *task.Task) string {
	switch {
	case t.Archived && t.Completed:
		return "archived (completed)"
	case t.Archived:
		return "archived"
	case t.Completed:
		return "completed"
	default:
		return "active"
	}
}

// dueDisplay renders the due date with its qualifier, e.g. "by 2026-10-21".
func dueDisplay(t *task.Task) string {
	s := instantDisplay(t.DueDate)
	if t.DueDate == nil || t.DueQualifier == "" {
		return s
	}
	return string(t.DueQualifier) + " " + s
}

// instantDisplay shows date-only values as dates and timed values in local
// time. Malformed text is shown verbatim.
func instantDisplay(in *date.Instant) string {
	if in == nil {
		return "--"
	}
	if !in.Valid() {
		return in.String()
	}
	t := in.Time().Local()
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

func styledInstant(s string, in *date.Instant) string {
	switch {
	case in == nil:
		return dimStyle.Render(s)
	case !in.Valid():
		return invalidStyle.Render(s + "?")
	default:
		return s
	}
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	return styledValueAs(s, s, styles, lipgloss.NewStyle())
}

func styledValueAs(key, s string, styles map[string]lipgloss.Style, fallback lipgloss.Style) string {
	if st, ok := styles[key]; ok {
		return st.Render(s)
	}
	return fallback.Render(s)
}
