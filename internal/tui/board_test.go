package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

// Wednesday 21 October 2026, mid-afternoon.
var now = time.Date(2026, time.October, 21, 15, 0, 0, 0, time.Local)

type fakeBackend struct {
	tasks   []*task.Task
	deleted []string
	loadErr error
}

func (f *fakeBackend) Load(context.Context) (*board.Board, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	cfg := &config.Config{
		Planner: config.PlannerConfig{Name: "home"},
		Tags:    []task.Tag{{ID: "errands", Name: "Errands"}},
	}
	return board.New(cfg, f.tasks, nil), nil
}

func (f *fakeBackend) find(id string) *task.Task {
	for _, t := range f.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (f *fakeBackend) SetCompleted(_ context.Context, id string, completed bool) error {
	t := f.find(id)
	if t == nil {
		return errors.New("not found")
	}
	if completed {
		task.Complete(t, now)
	} else {
		task.Reopen(t, now)
	}
	return nil
}

func (f *fakeBackend) SetArchived(_ context.Context, id string, archived bool) error {
	t := f.find(id)
	if t == nil {
		return errors.New("not found")
	}
	if archived {
		task.Archive(t, now)
	} else {
		task.Unarchive(t, now)
	}
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

func day(d int) *date.Instant {
	in := date.OnDay(date.New(2026, time.October, d))
	return &in
}

func mk(id, title string, deadline *date.Instant) *task.Task {
	created := now.Add(-time.Hour)
	return &task.Task{
		ID: id, Title: title, Priority: task.PriorityNormal,
		TargetDeadline: deadline, Created: created, Updated: created,
	}
}

func sampleBackend() *fakeBackend {
	done := mk("D", "Filed taxes", day(18))
	task.Complete(done, now.Add(-48*time.Hour))
	return &fakeBackend{tasks: []*task.Task{
		mk("A", "Renew passport", day(19)),
		mk("B", "Buy milk", day(21)),
		mk("C", "Read a book", nil),
		done,
	}}
}

func newTestBoard(t *testing.T, be Backend, mode view.Mode) *Board {
	t.Helper()
	b := NewBoard(be, Options{View: mode, TitleLines: 2})
	b.SetNow(func() time.Time { return now })
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b
}

func press(b *Board, keys ...string) {
	for _, k := range keys {
		switch k {
		case "space":
			b.Update(tea.KeyMsg{Type: tea.KeySpace})
		case "esc":
			b.Update(tea.KeyMsg{Type: tea.KeyEscape})
		case "enter":
			b.Update(tea.KeyMsg{Type: tea.KeyEnter})
		default:
			b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func columnTitles(b *Board) []string {
	titles := make([]string, len(b.columns))
	for i, c := range b.columns {
		titles[i] = c.title
	}
	return titles
}

func TestColumnsFollowDateBuckets(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeActive)

	assert.Equal(t, []string{"Overdue", "Today", "No Date"}, columnTitles(b))
	require.NotNil(t, b.SelectedTask())
	assert.Equal(t, "A", b.SelectedTask().ID)

	out := b.View()
	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "Renew passport")
	assert.Contains(t, out, "home")
}

func TestViewKeysToggleBackToActive(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeActive)

	press(b, "c")
	assert.Equal(t, view.ModeCompleted, b.Engine().Mode())
	assert.Equal(t, []string{"Completed"}, columnTitles(b))
	require.Len(t, b.columns[0].tasks, 1)
	assert.Equal(t, "D", b.columns[0].tasks[0].ID)
	assert.Contains(t, b.View(), "done 2d ago")

	press(b, "c")
	assert.Equal(t, view.ModeActive, b.Engine().Mode())

	press(b, "t")
	assert.Equal(t, view.ModeToday, b.Engine().Mode())
	press(b, "a")
	assert.Equal(t, view.ModeActive, b.Engine().Mode())
}

func TestOpensInConfiguredView(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeArchived)
	assert.Equal(t, view.ModeArchived, b.Engine().Mode())
	assert.Equal(t, []string{"Archived"}, columnTitles(b))
	assert.Empty(t, b.columns[0].tasks)
}

func TestDoneKeyCompletesSelectedTask(t *testing.T) {
	be := sampleBackend()
	b := newTestBoard(t, be, view.ModeActive)

	press(b, "space")
	assert.True(t, be.find("A").Completed)
	assert.Equal(t, []string{"Today", "No Date"}, columnTitles(b))

	press(b, "c")
	press(b, "j")
	require.NotNil(t, b.SelectedTask())
	press(b, "space")
	assert.Len(t, b.columns[0].tasks, 1)
}

func TestArchiveKey(t *testing.T) {
	be := sampleBackend()
	b := newTestBoard(t, be, view.ModeActive)

	press(b, "l", "A")
	assert.True(t, be.find("B").Archived)
	assert.Equal(t, []string{"Overdue", "No Date"}, columnTitles(b))
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	be := sampleBackend()
	b := newTestBoard(t, be, view.ModeActive)

	press(b, "D")
	assert.Equal(t, screenConfirmDelete, b.screen)
	assert.Contains(t, b.View(), "Renew passport")
	press(b, "n")
	assert.Equal(t, screenBoard, b.screen)
	assert.Empty(t, be.deleted)

	press(b, "D", "y")
	assert.Equal(t, []string{"A"}, be.deleted)
	assert.Equal(t, []string{"Today", "No Date"}, columnTitles(b))
}

func TestSearchAppliesLiveAndEscRestores(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeActive)

	press(b, "/", "m", "i", "l", "k")
	assert.Equal(t, screenSearch, b.screen)
	assert.Equal(t, "milk", b.Engine().SearchTerm())
	assert.Equal(t, []string{"Today"}, columnTitles(b))

	press(b, "esc")
	assert.Equal(t, screenBoard, b.screen)
	assert.Empty(t, b.Engine().SearchTerm())
	assert.Len(t, b.columns, 3)

	press(b, "/", "b", "o", "o", "k", "enter")
	assert.Equal(t, screenBoard, b.screen)
	assert.Equal(t, "book", b.Engine().SearchTerm())
	assert.Contains(t, b.View(), "/book")
}

func TestFilterKeys(t *testing.T) {
	be := sampleBackend()
	be.find("B").Priority = task.PriorityHigh
	b := newTestBoard(t, be, view.ModeActive)

	press(b, "1")
	assert.Equal(t, []task.Priority{task.PriorityHigh}, b.Engine().State().Filters.Priorities)
	assert.Equal(t, []string{"Today"}, columnTitles(b))
	assert.Contains(t, b.View(), "1 filters")

	press(b, "d")
	assert.Equal(t, view.DueAll.Next(), b.Engine().State().Filters.Due)

	press(b, "0")
	assert.Empty(t, b.Engine().State().Filters.Priorities)
	assert.Equal(t, view.DueAll, b.Engine().State().Filters.Due)
	assert.Len(t, b.columns, 3)
}

func TestInvalidDatesAreCountedNotShown(t *testing.T) {
	be := sampleBackend()
	bad := date.ParseInstant("next tuesday")
	be.tasks = append(be.tasks, mk("E", "Mystery", &bad))
	b := newTestBoard(t, be, view.ModeActive)

	assert.Equal(t, 1, b.skipped)
	assert.Equal(t, 3, b.taskCount())
	assert.Contains(t, b.View(), "1 skipped")
}

func TestReloadKeepsSelection(t *testing.T) {
	be := sampleBackend()
	b := newTestBoard(t, be, view.ModeActive)

	press(b, "l", "l")
	require.Equal(t, "C", b.SelectedTask().ID)

	be.tasks = append(be.tasks, mk("F", "Fix bike", day(20)))
	b.Update(ReloadMsg{})
	assert.Equal(t, []string{"Overdue", "Today", "No Date"}, columnTitles(b))
	assert.Equal(t, "C", b.SelectedTask().ID)
	assert.Len(t, b.columns[0].tasks, 2)
}

func TestNarrowTerminalScrollsColumns(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeActive)
	b.Update(tea.WindowSizeMsg{Width: 44, Height: 30})

	assert.Equal(t, 2, b.visibleColumnCount())
	press(b, "l", "l")
	assert.Equal(t, 2, b.activeCol)
	assert.Equal(t, 1, b.colOffset)
	assert.NotContains(t, b.View(), "Overdue (1)")

	press(b, "h", "h")
	assert.Equal(t, 0, b.colOffset)
}

func TestLoadErrorShownInStatusBar(t *testing.T) {
	be := sampleBackend()
	b := newTestBoard(t, be, view.ModeActive)

	be.loadErr = errors.New("disk on fire")
	b.Update(ReloadMsg{})
	assert.Contains(t, b.View(), "disk on fire")
	assert.Len(t, b.columns, 3)
}

func TestQuitKey(t *testing.T) {
	b := newTestBoard(t, sampleBackend(), view.ModeActive)
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWrapTitle(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapTitle("short", 10, 2))
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, wrapTitle("alpha beta gamma delta", 11, 2))
	lines := wrapTitle("alpha beta gamma delta epsilon", 11, 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "gamma de...", lines[1])
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "<1m", humanDuration(30*time.Second))
	assert.Equal(t, "5m", humanDuration(5*time.Minute))
	assert.Equal(t, "3d", humanDuration(72*time.Hour))
	assert.Equal(t, "2w", humanDuration(15*24*time.Hour))
}
