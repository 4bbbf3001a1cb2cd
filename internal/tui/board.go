// Package tui implements a terminal UI for effort planners.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

// screen represents the current screen state.
type screen int

const (
	screenBoard screen = iota
	screenSearch
	screenConfirmDelete
)

// Layout constants.
const (
	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when error toast is displayed
	searchChrome = 1 // search prompt line
	tickInterval = time.Minute
)

// Backend loads planner snapshots and applies the changes the board can make.
type Backend interface {
	Load(ctx context.Context) (*board.Board, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
}

// Options configure a new Board.
type Options struct {
	// View is the view the board opens in.
	View view.Mode
	// TitleLines is how many lines a card title may wrap to.
	TitleLines int
}

// Board is the top-level bubbletea model.
type Board struct {
	backend    Backend
	snapshot   *board.Board
	engine     *view.Engine
	titleLines int

	columns   []column
	activeCol int
	activeRow int
	colOffset int // first rendered column

	screen     screen
	search     textinput.Model
	prevSearch string

	width   int
	height  int
	err     error
	skipped int
	now     func() time.Time

	// Delete confirmation.
	deleteID    string
	deleteTitle string
}

// column is one date bucket, or the whole list in a flat view.
type column struct {
	title     string
	group     bucket.Group
	flat      bool
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board and loads the first snapshot.
func NewBoard(backend Backend, opts Options) *Board {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "title, description or tag"

	b := &Board{
		backend:    backend,
		engine:     view.New(nil, ""),
		titleLines: opts.TitleLines,
		search:     in,
		now:        time.Now,
	}
	if b.titleLines < 1 {
		b.titleLines = 1
	}
	b.engine.Show(opts.View)
	b.reload()
	return b
}

// SetNow overrides the clock used for grouping and ages (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
	b.engine.SetNow(fn)
	b.rebuild()
}

// Engine exposes the view engine driving the board.
func (b *Board) Engine() *view.Engine { return b.engine }

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.search.Width = msg.Width - 2 //nolint:mnd // prompt and cursor
		b.ensureColumnVisible()
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case TickMsg:
		// Buckets move when the day changes.
		b.rebuild()
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	if b.screen == screenConfirmDelete {
		return b.viewDeleteConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}

	switch b.screen {
	case screenSearch:
		return b.handleSearchKey(msg)
	case screenConfirmDelete:
		return b.handleDeleteKey(msg)
	default:
		return b.handleBoardKey(msg)
	}
}

//nolint:gocyclo,cyclop // one case per binding
func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, keys.Active):
		b.engine.ShowAllActive()
		b.rebuild()
	case key.Matches(msg, keys.Today):
		b.engine.ShowToday()
		b.rebuild()
	case key.Matches(msg, keys.Completed):
		b.engine.ShowCompleted()
		b.rebuild()
	case key.Matches(msg, keys.Archived):
		b.engine.ShowArchived()
		b.rebuild()
	case key.Matches(msg, keys.Search):
		b.prevSearch = b.engine.SearchTerm()
		b.search.SetValue(b.prevSearch)
		b.search.CursorEnd()
		b.screen = screenSearch
		return b, b.search.Focus()
	case key.Matches(msg, keys.Priority):
		n := int(msg.Runes[0] - '1')
		b.setErr(b.engine.TogglePriority(task.Priorities[n]))
		b.rebuild()
	case key.Matches(msg, keys.Due):
		b.setErr(b.engine.SetFilterByDueDate(b.engine.State().Filters.Due.Next()))
		b.rebuild()
	case key.Matches(msg, keys.GoLive):
		b.engine.SetFilterByGoLive(!b.engine.State().Filters.GoLive)
		b.rebuild()
	case key.Matches(msg, keys.Clear):
		b.engine.ClearAllFilters()
		b.rebuild()
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Done):
		if t := b.selectedTask(); t != nil {
			b.apply(b.backend.SetCompleted(context.Background(), t.ID, !t.Completed))
		}
	case key.Matches(msg, keys.Archive):
		if t := b.selectedTask(); t != nil {
			b.apply(b.backend.SetArchived(context.Background(), t.ID, !t.Archived))
		}
	case key.Matches(msg, keys.Delete):
		if t := b.selectedTask(); t != nil {
			b.deleteID = t.ID
			b.deleteTitle = t.Title
			b.screen = screenConfirmDelete
		}
	}
	return b, nil
}

// handleSearchKey edits the search term live; enter keeps it, esc restores
// the previous term.
func (b *Board) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.search.Blur()
		b.screen = screenBoard
		return b, nil
	case "esc":
		b.search.Blur()
		b.screen = screenBoard
		b.engine.SetSearchTerm(b.prevSearch)
		b.rebuild()
		return b, nil
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	if b.search.Value() != b.engine.SearchTerm() {
		b.engine.SetSearchTerm(b.search.Value())
		b.rebuild()
	}
	return b, cmd
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.screen = screenBoard
		b.apply(b.backend.Delete(context.Background(), b.deleteID))
	case "n", "N", "esc", "q":
		b.screen = screenBoard
	}
	return b, nil
}

// handleMouse handles mouse click events for card selection.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.screen != screenBoard {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := b.colOffset + msg.X/colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}

	col := &b.columns[clickedCol]
	b.activeCol = clickedCol
	lineY := msg.Y - 1
	if col.scrollOff > 0 {
		lineY-- // "↑ N more" indicator
	}
	if lineY < 0 {
		b.clampRow()
		return b, nil
	}

	cardLine := 0
	for rowIdx := col.scrollOff; rowIdx < len(col.tasks); rowIdx++ {
		cardH := b.cardHeight(col.tasks[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			b.activeRow = rowIdx
			b.ensureVisible()
			return b, nil
		}
		cardLine += cardH
	}
	b.clampRow()
	return b, nil
}

// apply records the outcome of a change and reloads on success.
func (b *Board) apply(err error) {
	if err != nil {
		b.err = err
		return
	}
	b.reload()
}

func (b *Board) setErr(err error) {
	if err != nil {
		b.err = err
	}
}

// reload fetches a fresh snapshot and rebuilds the columns.
func (b *Board) reload() {
	snap, err := b.backend.Load(context.Background())
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.snapshot = snap
	b.engine.SetProvider(snap)
	b.rebuild()
}

// rebuild recomputes the columns from the engine, keeping the selected
// task selected when it is still visible.
func (b *Board) rebuild() {
	var selected string
	if t := b.selectedTask(); t != nil {
		selected = t.ID
	}

	mode := b.engine.Mode()
	b.skipped = 0
	if mode.Grouped() {
		buckets, skipped := b.engine.Groups()
		b.skipped = len(skipped)
		b.columns = make([]column, len(buckets))
		for i, bk := range buckets {
			b.columns[i] = column{title: bk.Group.String(), group: bk.Group, tasks: bk.Tasks}
		}
	} else {
		b.columns = []column{{title: modeTitles[mode], flat: true, tasks: b.engine.VisibleTasks()}}
	}

	b.reselect(selected)
}

func (b *Board) reselect(id string) {
	if id != "" {
		for ci, col := range b.columns {
			for ri, t := range col.tasks {
				if t.ID == id {
					b.activeCol, b.activeRow = ci, ri
					b.ensureColumnVisible()
					b.ensureVisible()
					return
				}
			}
		}
	}
	if b.activeCol >= len(b.columns) {
		b.activeCol = max(len(b.columns)-1, 0)
	}
	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

// SelectedTask returns the task under the cursor, or nil.
func (b *Board) SelectedTask() *task.Task { return b.selectedTask() }

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureColumnVisible()
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area: blank line + status bar (+ error line, + search prompt).
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	if b.screen == screenSearch {
		h += searchChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	// Always need 1 line for column header.
	avail := budget - 1

	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)

	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}

	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()

	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

// ensureColumnVisible scrolls horizontally so the active column is rendered.
func (b *Board) ensureColumnVisible() {
	n := b.visibleColumnCount()
	switch {
	case b.activeCol < b.colOffset:
		b.colOffset = b.activeCol
	case b.activeCol >= b.colOffset+n:
		b.colOffset = b.activeCol - n + 1
	}
	if maxOff := max(len(b.columns)-n, 0); b.colOffset > maxOff {
		b.colOffset = maxOff
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}

	return max(count, 1)
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically so date groups follow the clock.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

var modeTitles = map[view.Mode]string{
	view.ModeActive:    "Active",
	view.ModeToday:     "Today",
	view.ModeCompleted: "Completed",
	view.ModeArchived:  "Archived",
}
