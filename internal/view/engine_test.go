package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Wednesday 21 October 2026, mid-afternoon.
var now = time.Date(2026, time.October, 21, 15, 0, 0, 0, time.Local)

type fakeProvider struct {
	tasks []*task.Task
	tags  map[string]task.Tag
}

func (p *fakeProvider) Tasks() []*task.Task { return p.tasks }

func (p *fakeProvider) CompletedNonArchived() []*task.Task {
	var out []*task.Task
	for _, t := range p.tasks {
		if t.Completed && !t.Archived {
			out = append(out, t)
		}
	}
	return out
}

func (p *fakeProvider) Archived() []*task.Task {
	var out []*task.Task
	for _, t := range p.tasks {
		if t.Archived {
			out = append(out, t)
		}
	}
	return out
}

func (p *fakeProvider) Tag(id string) (task.Tag, bool) {
	tag, ok := p.tags[id]
	return tag, ok
}

func newEngine(tasks ...*task.Task) *Engine {
	e := New(&fakeProvider{
		tasks: tasks,
		tags: map[string]task.Tag{
			"t-home": {ID: "t-home", Name: "Home"},
			"t-work": {ID: "t-work", Name: "Work"},
		},
	}, "")
	e.SetNow(func() time.Time { return now })
	return e
}

func mk(id, title string) *task.Task {
	return &task.Task{ID: id, Title: title, Priority: task.PriorityNormal}
}

func daysFromNow(n int) *date.Instant {
	in := date.At(now.AddDate(0, 0, n))
	return &in
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestDefaults(t *testing.T) {
	e := newEngine()
	st := e.State()
	assert.Equal(t, ModeActive, st.Mode)
	assert.Equal(t, DueAll, st.Filters.Due)
	assert.Empty(t, st.Filters.Priorities)
	assert.Empty(t, st.Search)
	assert.Zero(t, e.ActiveFilterCount())
	assert.Empty(t, e.VisibleTasks())
}

func TestNilProviderYieldsNothing(t *testing.T) {
	e := New(nil, "x")
	assert.Empty(t, e.VisibleTasks())
	_, ok := e.TaskByID("a")
	assert.False(t, ok)
}

func TestActiveViewExcludesCompletedAndArchived(t *testing.T) {
	done := mk("done", "Done")
	done.Completed = true
	archived := mk("arch", "Archived")
	archived.Archived = true
	e := newEngine(mk("a", "Open"), done, archived, mk("b", "Also open"))

	assert.Equal(t, []string{"a", "b"}, ids(e.VisibleTasks()))
}

func TestSearchMatchesTitleCaseInsensitive(t *testing.T) {
	other := mk("other", "Another Task")
	other.Completed = true
	e := newEngine(mk("alpha", "Searchable Task Alpha"), other)
	e.SetSearchTerm("alpha")

	assert.Equal(t, []string{"alpha"}, ids(e.VisibleTasks()))
}

func TestSearchMatchesDescriptionAndTagName(t *testing.T) {
	byDesc := mk("desc", "Plain")
	byDesc.Description = "call the PLUMBER"
	byTag := mk("tag", "Plain too")
	byTag.TagIDs = []string{"t-home"}
	unknownTag := mk("ghost", "Plain three")
	unknownTag.TagIDs = []string{"missing"}
	e := newEngine(byDesc, byTag, unknownTag)

	e.SetSearchTerm("plumber")
	assert.Equal(t, []string{"desc"}, ids(e.VisibleTasks()))

	e.SetSearchTerm("hOmE")
	assert.Equal(t, []string{"tag"}, ids(e.VisibleTasks()))
}

func TestCompletedViewBypassesFilters(t *testing.T) {
	high := mk("high", "High")
	high.Priority = task.PriorityHigh
	high.Completed = true
	low := mk("low", "Low")
	low.Priority = task.PriorityLow
	low.Completed = true
	archived := mk("arch", "Archived")
	archived.Completed = true
	archived.Archived = true
	e := newEngine(high, low, archived, mk("open", "Open"))

	require.NoError(t, e.TogglePriority(task.PriorityHigh))
	e.ShowCompleted()

	assert.Equal(t, ModeCompleted, e.Mode())
	assert.Equal(t, []string{"high", "low"}, ids(e.VisibleTasks()))
}

func TestCompletedViewStillAppliesSearch(t *testing.T) {
	a := mk("a", "Write report")
	a.Completed = true
	b := mk("b", "Buy milk")
	b.Completed = true
	e := newEngine(a, b)
	e.ShowCompleted()
	e.SetSearchTerm("milk")

	assert.Equal(t, []string{"b"}, ids(e.VisibleTasks()))
}

func TestArchivedView(t *testing.T) {
	a := mk("a", "Old")
	a.Archived = true
	e := newEngine(a, mk("b", "New"))
	e.ShowArchived()
	assert.Equal(t, []string{"a"}, ids(e.VisibleTasks()))
}

func TestDueTodayFilter(t *testing.T) {
	dueNow := mk("now", "Due now")
	in := date.At(now)
	dueNow.DueDate = &in
	dueTomorrow := mk("tomorrow", "Due tomorrow")
	dueTomorrow.DueDate = daysFromNow(1)
	e := newEngine(dueNow, dueTomorrow)

	require.NoError(t, e.SetFilterByDueDate(DueToday))
	assert.Equal(t, []string{"now"}, ids(e.VisibleTasks()))
}

func TestDueFilters(t *testing.T) {
	withDue := func(id string, days int) *task.Task {
		tk := mk(id, id)
		tk.DueDate = daysFromNow(days)
		return tk
	}
	// Monday 19 .. Sunday 25 is the current week.
	tasks := []*task.Task{
		withDue("minus3", -3), // Sunday 18
		withDue("minus1", -1), // Tuesday 20
		withDue("zero", 0),
		withDue("plus4", 4), // Sunday 25
		withDue("plus6", 6), // Tuesday 27
		withDue("plus7", 7),
		mk("nodue", "no due date"),
	}

	tests := []struct {
		filter DueFilter
		want   []string
	}{
		{DueAll, []string{"minus3", "minus1", "zero", "plus4", "plus6", "plus7", "nodue"}},
		{DueToday, []string{"zero"}},
		{DueWeek, []string{"minus1", "zero", "plus4"}},
		{DueOverdue, []string{"minus3", "minus1"}},
		{DuePast, []string{"minus3", "minus1"}},
		{DueFuture, []string{"plus4", "plus6", "plus7"}},
		{DueNext7Days, []string{"zero", "plus4", "plus6"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			e := newEngine(tasks...)
			require.NoError(t, e.SetFilterByDueDate(tt.filter))
			assert.Equal(t, tt.want, ids(e.VisibleTasks()))
		})
	}
}

func TestOverdueFilterSkipsCompletedTasks(t *testing.T) {
	done := mk("done", "done")
	done.DueDate = daysFromNow(-2)
	done.Completed = true
	assert.False(t, DueOverdue.Match(done, now))
	assert.True(t, DuePast.Match(done, now))
}

func TestMalformedDueDateFailsDueFilter(t *testing.T) {
	bad := date.ParseInstant("soon")
	tk := mk("bad", "bad")
	tk.DueDate = &bad
	assert.True(t, DueAll.Match(tk, now))
	for _, f := range DueFilters[1:] {
		assert.False(t, f.Match(tk, now), f)
	}
}

func TestTagPersonAndPriorityFilters(t *testing.T) {
	a := mk("a", "a")
	a.TagIDs = []string{"t-home"}
	a.PersonIDs = []string{"p-ann"}
	a.Priority = task.PriorityHigh
	b := mk("b", "b")
	b.TagIDs = []string{"t-work"}
	b.PersonIDs = []string{"p-bob"}
	c := mk("c", "c")
	e := newEngine(a, b, c)

	require.NoError(t, e.ToggleTag("t-home"))
	require.NoError(t, e.ToggleTag("t-work"))
	assert.Equal(t, []string{"a", "b"}, ids(e.VisibleTasks()))

	require.NoError(t, e.TogglePerson("p-bob"))
	assert.Equal(t, []string{"b"}, ids(e.VisibleTasks()))

	require.NoError(t, e.TogglePriority(task.PriorityHigh))
	assert.Empty(t, e.VisibleTasks())

	assert.Equal(t, 4, e.ActiveFilterCount())
}

func TestGoLiveFilter(t *testing.T) {
	live := mk("live", "Launch")
	live.GoLiveDate = daysFromNow(0)
	later := mk("later", "Later launch")
	later.GoLiveDate = daysFromNow(3)
	e := newEngine(live, later, mk("none", "none"))

	e.SetFilterByGoLive(true)
	assert.Equal(t, []string{"live"}, ids(e.VisibleTasks()))
}

func TestTodayViewBaseList(t *testing.T) {
	due := mk("due", "Due today, no deadline")
	due.DueDate = daysFromNow(0)
	live := mk("live", "Goes live today")
	live.GoLiveDate = daysFromNow(0)
	deadline := mk("deadline", "Deadline today")
	deadline.TargetDeadline = daysFromNow(0)
	tomorrow := mk("tomorrow", "Deadline tomorrow")
	tomorrow.TargetDeadline = daysFromNow(1)
	done := mk("done", "Done today")
	done.DueDate = daysFromNow(0)
	done.Completed = true
	e := newEngine(due, live, deadline, tomorrow, done)

	e.ShowToday()
	assert.Equal(t, []string{"due", "live", "deadline"}, ids(e.VisibleTasks()))

	groups, skipped := e.Groups()
	assert.Empty(t, skipped)
	require.Len(t, groups, 2)
	assert.Equal(t, bucket.Today, groups[0].Group)
	assert.Equal(t, []string{"deadline"}, ids(groups[0].Tasks))
	assert.Equal(t, bucket.NoDate, groups[1].Group)
	assert.Equal(t, []string{"due", "live"}, ids(groups[1].Tasks))
}

func TestGroupsReportSkippedTasks(t *testing.T) {
	bad := date.ParseInstant("2026-13-01")
	broken := mk("broken", "broken")
	broken.TargetDeadline = &bad
	e := newEngine(broken, mk("fine", "fine"))

	groups, skipped := e.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"fine"}, ids(groups[0].Tasks))
	assert.Equal(t, []string{"broken"}, ids(skipped))
}

func TestGroupsReadsClockOnce(t *testing.T) {
	// The clock crosses midnight between reads.
	beforeMidnight := time.Date(2026, time.October, 21, 23, 59, 59, 0, time.Local)
	reads := 0
	tonight := date.OnDay(date.New(2026, time.October, 21))
	due := mk("due", "due")
	due.TargetDeadline = &tonight

	e := newEngine(due)
	e.SetNow(func() time.Time {
		reads++
		if reads == 1 {
			return beforeMidnight
		}
		return beforeMidnight.Add(2 * time.Second)
	})
	e.ShowToday()

	groups, skipped := e.Groups()
	assert.Equal(t, 1, reads)
	assert.Empty(t, skipped)
	require.Len(t, groups, 1)
	assert.Equal(t, bucket.Today, groups[0].Group)
	assert.Equal(t, []string{"due"}, ids(groups[0].Tasks))
}

func TestGroupsEmptyForFlatViews(t *testing.T) {
	done := mk("done", "done")
	done.Completed = true
	e := newEngine(done)
	e.ShowCompleted()
	groups, skipped := e.Groups()
	assert.Nil(t, groups)
	assert.Nil(t, skipped)
}

func TestViewSetterTogglesBackToActive(t *testing.T) {
	setters := map[Mode]func(*Engine){
		ModeToday:     (*Engine).ShowToday,
		ModeCompleted: (*Engine).ShowCompleted,
		ModeArchived:  (*Engine).ShowArchived,
	}
	for mode, show := range setters {
		t.Run(mode.String(), func(t *testing.T) {
			e := newEngine()
			show(e)
			assert.Equal(t, mode, e.Mode())
			show(e)
			assert.Equal(t, ModeActive, e.Mode())
		})
	}
}

func TestViewSwitchKeepsFiltersAndSearch(t *testing.T) {
	e := newEngine()
	e.SetSearchTerm("x")
	require.NoError(t, e.TogglePriority(task.PriorityLow))
	e.ShowArchived()
	e.ShowToday()
	st := e.State()
	assert.Equal(t, ModeToday, st.Mode)
	assert.Equal(t, "x", st.Search)
	assert.Equal(t, []task.Priority{task.PriorityLow}, st.Filters.Priorities)
}

func TestClearAllFiltersKeepsModeAndSearch(t *testing.T) {
	e := newEngine()
	e.ShowCompleted()
	e.SetSearchTerm("report")
	require.NoError(t, e.ToggleTag("t-home"))
	require.NoError(t, e.SetFilterByDueDate(DueWeek))
	e.SetFilterByGoLive(true)

	e.ClearAllFilters()
	assert.Equal(t, State{Mode: ModeCompleted, Filters: Filters{Due: DueAll}, Search: "report"}, e.State())
	assert.Equal(t, 1, e.ActiveFilterCount())
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	e := newEngine()
	before := e.State()
	require.NoError(t, e.TogglePriority(task.PriorityHigh))
	require.NoError(t, e.TogglePriority(task.PriorityHigh))
	require.NoError(t, e.ToggleTag("t-home"))
	require.NoError(t, e.ToggleTag("t-home"))
	require.NoError(t, e.TogglePerson("p"))
	require.NoError(t, e.TogglePerson("p"))
	assert.Empty(t, e.State().Filters.Priorities)
	assert.Empty(t, e.State().Filters.Tags)
	assert.Empty(t, e.State().Filters.People)
	assert.Equal(t, before.Mode, e.State().Mode)
}

func TestVisibleTasksIsIdempotent(t *testing.T) {
	a := mk("a", "a")
	a.TargetDeadline = daysFromNow(2)
	e := newEngine(a, mk("b", "b"))
	require.NoError(t, e.TogglePriority(task.PriorityNormal))
	first := e.VisibleTasks()
	second := e.VisibleTasks()
	assert.Equal(t, first, second)
}

func TestVisibleTasksReflectsProviderChanges(t *testing.T) {
	p := &fakeProvider{tasks: []*task.Task{mk("a", "a")}}
	e := New(p, "")
	e.SetNow(func() time.Time { return now })
	assert.Len(t, e.VisibleTasks(), 1)

	p.tasks = append(p.tasks, mk("b", "b"))
	assert.Len(t, e.VisibleTasks(), 2)
}

func TestContractViolationsLeaveStateUnchanged(t *testing.T) {
	e := newEngine()
	before := e.State()

	err := e.TogglePriority("urgent")
	assert.True(t, clierr.HasCode(err, clierr.InvalidPriority))

	err = e.SetFilterByDueDate("someday")
	assert.True(t, clierr.HasCode(err, clierr.InvalidDueFilter))

	err = e.ToggleTag("")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	err = e.TogglePerson("")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	assert.Equal(t, before, e.State())
}

func TestTaskByIDIgnoresFilters(t *testing.T) {
	done := mk("done", "done")
	done.Completed = true
	e := newEngine(done)
	e.SetSearchTerm("nothing matches")

	got, ok := e.TaskByID("done")
	require.True(t, ok)
	assert.Same(t, done, got)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Archived ")
	require.NoError(t, err)
	assert.Equal(t, ModeArchived, m)

	_, err = ParseMode("inbox")
	assert.True(t, clierr.HasCode(err, clierr.InvalidView))

	var ce *clierr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"active", "today", "completed", "archived"}, ce.Details["allowed"])

	for _, m := range Modes {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestParseDueFilterAndNext(t *testing.T) {
	f, err := ParseDueFilter("NEXT7DAYS")
	require.NoError(t, err)
	assert.Equal(t, DueNext7Days, f)
	assert.Equal(t, DueAll, DueNext7Days.Next())
	assert.Equal(t, DueToday, DueAll.Next())

	_, err = ParseDueFilter("tomorrow")
	assert.True(t, clierr.HasCode(err, clierr.InvalidDueFilter))
}
