package tui

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

const (
	minColWidth = 22
	maxColWidth = 75
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	// Header backgrounds for the urgent buckets.
	groupHeaderColors = map[bucket.Group]lipgloss.Color{
		bucket.Overdue:  "124",
		bucket.Today:    "166",
		bucket.Tomorrow: "136",
	}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))

	blockedCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		task.PriorityNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		task.PriorityLowest: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Italic(true)
	personStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))

	// tagColorPalette is a set of distinct, readable terminal colors for auto-coloring tags.
	tagColorPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// tagStyle returns a consistent style for a tag name. Same tag, same color.
func tagStyle(tag string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	color := tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))]
	return lipgloss.NewStyle().Foreground(color)
}

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()
	n := b.visibleColumnCount()
	end := min(b.colOffset+n, len(b.columns))

	rendered := make([]string, 0, n)
	for i := b.colOffset; i < end; i++ {
		rendered = append(rendered, b.renderColumn(i, b.columns[i], colWidth))
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if len(b.columns) == 0 {
		boardView = dimStyle.Render("  Nothing to show.")
	}

	// Clamp from the bottom, keeping headers, and pad to the full height.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	parts := []string{boardView, ""}
	if b.screen == screenSearch {
		parts = append(parts, b.search.View())
	}
	parts = append(parts, b.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// visibleColumnCount is how many columns fit side by side.
func (b *Board) visibleColumnCount() int {
	if len(b.columns) == 0 {
		return 1
	}
	if b.width == 0 {
		return len(b.columns)
	}
	return max(min(b.width/minColWidth, len(b.columns)), 1)
}

func (b *Board) columnWidth() int {
	if b.width == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/b.visibleColumnCount(), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.title, len(col.tasks))
	if colIdx == b.colOffset && b.colOffset > 0 {
		headerText = "← " + headerText
	}
	if colIdx == b.colOffset+b.visibleColumnCount()-1 && colIdx < len(b.columns)-1 {
		headerText += " →"
	}
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	switch {
	case colIdx == b.activeCol:
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	case !col.flat && groupHeaderColors[col.group] != "":
		header = columnHeaderStyle.Background(groupHeaderColors[col.group]).Width(width).Render(headerText)
	default:
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}

	if start > 0 {
		indicator := fmt.Sprintf("  ↑ %d more", start)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(col.tasks[rowIdx], active, width))
		}
	}

	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	content := strings.Join(b.cardContentLines(t, width), "\n")

	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case b.blocked(t):
		style = blockedCardStyle
	}
	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(t *task.Task, width int) int {
	return len(b.cardContentLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) blocked(t *task.Task) bool {
	return b.snapshot != nil && b.snapshot.Blocked(t)
}

// cardContentLines returns the title lines, a meta line and, when present,
// a line of tags and people.
func (b *Board) cardContentLines(t *task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	titleStyle, ok := priorityStyles[t.Priority]
	if !ok {
		titleStyle = dimStyle
	}

	var lines []string
	for _, line := range wrapTitle(t.Title, cardWidth, b.titleLines) {
		lines = append(lines, titleStyle.Render(line))
	}

	lines = append(lines, truncateStyled(b.metaLine(t), cardWidth))

	if refs := b.refsLine(t); refs != "" {
		lines = append(lines, truncateStyled(refs, cardWidth))
	}
	return lines
}

func (b *Board) metaLine(t *task.Task) string {
	parts := []string{dimStyle.Render(string(t.Priority))}

	if t.TargetDeadline != nil {
		parts = append(parts, instantLabel("⚑ ", t.TargetDeadline))
	}
	if t.DueDate != nil {
		prefix := "due "
		if t.DueQualifier != "" {
			prefix = "due " + string(t.DueQualifier) + " "
		}
		parts = append(parts, instantLabel(prefix, t.DueDate))
	}
	if t.GoLiveDate != nil {
		parts = append(parts, instantLabel("live ", t.GoLiveDate))
	}
	if b.blocked(t) {
		parts = append(parts, errorStyle.Render("blocked"))
	}
	if t.Completed && t.CompletedDate != nil && b.engine.Mode() == view.ModeCompleted {
		parts = append(parts, dimStyle.Render("done "+humanDuration(b.now().Sub(*t.CompletedDate))+" ago"))
	}
	return strings.Join(parts, dimStyle.Render(" · "))
}

func (b *Board) refsLine(t *task.Task) string {
	if b.snapshot == nil {
		return ""
	}
	var parts []string
	for _, name := range output.TagNames(t, b.snapshot) {
		parts = append(parts, tagStyle(name).Render("#"+name))
	}
	for _, name := range output.PersonNames(t, b.snapshot) {
		parts = append(parts, personStyle.Render("@"+name))
	}
	return strings.Join(parts, " ")
}

// instantLabel renders a date, flagging unparseable values with "?".
func instantLabel(prefix string, in *date.Instant) string {
	if !in.Valid() {
		return invalidStyle.Render(prefix + in.String() + "?")
	}
	t := in.Time().Local()
	if t.Hour() == 0 && t.Minute() == 0 {
		return dimStyle.Render(prefix + t.Format("Jan 2"))
	}
	return dimStyle.Render(prefix + t.Format("Jan 2 15:04"))
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line takes the rest and gets truncated.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	st := b.engine.State()
	parts := []string{" " + b.name(), modeTitles[st.Mode]}
	if n := b.engine.ActiveFilterCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	for _, p := range st.Filters.Priorities {
		parts = append(parts, string(p))
	}
	if st.Filters.Due != view.DueAll {
		parts = append(parts, "due:"+string(st.Filters.Due))
	}
	if st.Filters.GoLive {
		parts = append(parts, "go-live")
	}
	if st.Search != "" && b.screen != screenSearch {
		parts = append(parts, "/"+st.Search)
	}
	parts = append(parts, fmt.Sprintf("%d tasks", b.taskCount()))
	if b.skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped (bad dates)", b.skipped))
	}

	help := make([]string, 0, len(keys.helpBindings()))
	for _, k := range keys.helpBindings() {
		h := k.Help()
		help = append(help, h.Key+":"+h.Desc)
	}
	parts = append(parts, strings.Join(help, " "))

	status := truncate(strings.Join(parts, " | "), b.width)
	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (b *Board) name() string {
	if b.snapshot == nil {
		return "effort"
	}
	return b.snapshot.Name()
}

func (b *Board) taskCount() int {
	n := 0
	for _, col := range b.columns {
		n += len(col.tasks)
	}
	return n
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", output.ShortID(b.deleteID), b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

// truncateStyled cuts a rendered line to maxLen display cells.
func truncateStyled(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(maxLen).Render(s)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// humanDuration formats a duration compactly: "<1m", "5m", "2h", "3d",
// "2w", "3mo", "1y".
func humanDuration(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < day:
		return strconv.Itoa(int(d.Hours())) + "h"
	case d < week:
		return strconv.Itoa(int(d/day)) + "d"
	case d < month:
		return strconv.Itoa(int(d/week)) + "w"
	case d < year:
		return strconv.Itoa(int(d/month)) + "mo"
	default:
		return strconv.Itoa(int(d/year)) + "y"
	}
}
