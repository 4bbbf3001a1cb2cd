package bucket

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Wednesday; the current week runs Mon 19 .. Sun 25 October.
var wednesday = time.Date(2026, time.October, 21, 15, 0, 0, 0, time.Local)

func at(year int, month time.Month, day, hour, minute int) *date.Instant {
	in := date.At(time.Date(year, month, day, hour, minute, 0, 0, time.Local))
	return &in
}

func deadline(id string, d *date.Instant) *task.Task {
	return &task.Task{ID: id, Title: id, Priority: task.PriorityNormal, TargetDeadline: d}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		deadline  *date.Instant
		completed bool
		want      Group
	}{
		{"no deadline", wednesday, nil, false, NoDate},
		{"yesterday open", wednesday, at(2026, time.October, 20, 9, 0), false, Overdue},
		{"yesterday completed", wednesday, at(2026, time.October, 20, 9, 0), true, ThisWeek},
		{"last year open", wednesday, at(2025, time.January, 3, 9, 0), false, Overdue},
		{"last year completed", wednesday, at(2025, time.January, 3, 9, 0), true, Future},
		{"earlier this month completed", wednesday, at(2026, time.October, 2, 9, 0), true, ThisMonth},
		{"today early", wednesday, at(2026, time.October, 21, 0, 1), false, Today},
		{"today late", wednesday, at(2026, time.October, 21, 23, 59), false, Today},
		{"tomorrow just after midnight", wednesday, at(2026, time.October, 22, 0, 1), false, Tomorrow},
		{"saturday", wednesday, at(2026, time.October, 24, 12, 0), false, ThisWeek},
		{"sunday end of week", wednesday, at(2026, time.October, 25, 23, 0), false, ThisWeek},
		{"next monday", wednesday, at(2026, time.October, 26, 8, 0), false, NextWeek},
		{"next week crosses month", wednesday, at(2026, time.November, 1, 8, 0), false, NextWeek},
		{"far future", wednesday, at(2026, time.November, 20, 8, 0), false, Future},
		{"later this month", time.Date(2026, time.October, 5, 9, 0, 0, 0, time.Local), at(2026, time.October, 25, 8, 0), false, ThisMonth},
		{"tomorrow beats next week", time.Date(2026, time.October, 25, 9, 0, 0, 0, time.Local), at(2026, time.October, 26, 8, 0), false, Tomorrow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := deadline("t", tt.deadline)
			tk.Completed = tt.completed
			assert.Equal(t, tt.want, Classify(tk, tt.now))
		})
	}
}

func TestClassifyDateOnlyAcrossZones(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("JST", 9*60*60)
	t.Cleanup(func() { time.Local = orig })

	noonUTC := time.Date(2026, time.October, 21, 12, 0, 0, 0, time.UTC)
	lateUTC := time.Date(2026, time.October, 21, 23, 30, 0, 0, time.UTC)
	on := func(d int) *date.Instant {
		in := date.ParseInstant(fmt.Sprintf("2026-10-%02d", d))
		return &in
	}

	tests := []struct {
		name     string
		now      time.Time
		deadline *date.Instant
		want     Group
	}{
		{"same day utc clock", noonUTC, on(21), Today},
		{"next day utc clock", noonUTC, on(22), Tomorrow},
		{"previous day utc clock", noonUTC, on(20), Overdue},
		{"late utc evening", lateUTC, on(21), Today},
		{"timed deadline converts", noonUTC, at(2026, time.October, 22, 8, 0), Today},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(deadline("t", tt.deadline), tt.now))
		})
	}
}

func TestBlankDeadlineInFileIsNoDate(t *testing.T) {
	content := "---\nid: 01JAAAAAAAAAAAAAAAAAAAAAAA\ntitle: Blank\npriority: normal\ntarget_deadline: \"\"\ndue_date: \"\"\n---\n"
	tk, err := task.Decode([]byte(content))
	require.NoError(t, err)
	assert.Nil(t, tk.TargetDeadline)
	assert.Nil(t, tk.DueDate)
	assert.True(t, HasValidDates(tk))

	groups := GroupByDate([]*task.Task{tk}, wednesday)
	require.Len(t, groups, 1)
	assert.Equal(t, NoDate, groups[0].Group)
	assert.Empty(t, InvalidDates([]*task.Task{tk}))
}

func TestClassifyIgnoresDueDate(t *testing.T) {
	tk := &task.Task{ID: "t", DueDate: at(2026, time.October, 21, 9, 0)}
	assert.Equal(t, NoDate, Classify(tk, wednesday))
}

func TestClassifyNeverOverdueWhenCompleted(t *testing.T) {
	for days := 1; days < 800; days += 7 {
		d := date.At(wednesday.AddDate(0, 0, -days))
		tk := &task.Task{ID: "t", TargetDeadline: &d, Completed: true}
		assert.NotEqual(t, Overdue, Classify(tk, wednesday), "deadline %d days ago", days)
	}
}

func TestGroupByDateOrderAndStability(t *testing.T) {
	tasks := []*task.Task{
		deadline("none-1", nil),
		deadline("future", at(2026, time.December, 1, 9, 0)),
		deadline("today-1", at(2026, time.October, 21, 18, 0)),
		deadline("overdue", at(2026, time.October, 1, 9, 0)),
		deadline("today-2", at(2026, time.October, 21, 7, 0)),
		deadline("none-2", nil),
	}

	groups := GroupByDate(tasks, wednesday)
	require.Len(t, groups, 4)

	assert.Equal(t, Overdue, groups[0].Group)
	assert.Equal(t, Today, groups[1].Group)
	assert.Equal(t, Future, groups[2].Group)
	assert.Equal(t, NoDate, groups[3].Group)

	assert.Equal(t, []string{"today-1", "today-2"}, ids(groups[1].Tasks))
	assert.Equal(t, []string{"none-1", "none-2"}, ids(groups[3].Tasks))

	for i := 1; i < len(groups); i++ {
		assert.Less(t, groups[i-1].Group, groups[i].Group)
	}
	for _, g := range groups {
		assert.NotEmpty(t, g.Tasks)
	}
}

func TestGroupByDateSkipsMalformedDates(t *testing.T) {
	badDue := date.ParseInstant("31/02/2026")
	badDeadline := date.ParseInstant("whenever")

	good := deadline("good", at(2026, time.October, 21, 9, 0))
	dueBroken := deadline("due-broken", at(2026, time.October, 21, 9, 0))
	dueBroken.DueDate = &badDue
	deadlineBroken := deadline("deadline-broken", &badDeadline)

	tasks := []*task.Task{dueBroken, good, deadlineBroken}
	groups := GroupByDate(tasks, wednesday)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"good"}, ids(groups[0].Tasks))

	assert.Equal(t, []string{"due-broken", "deadline-broken"}, ids(InvalidDates(tasks)))
}

func TestGroupByDateEmpty(t *testing.T) {
	assert.Empty(t, GroupByDate(nil, wednesday))
}

func TestHasValidDatesTreatsAbsentAsValid(t *testing.T) {
	assert.True(t, HasValidDates(&task.Task{ID: "t"}))
}

func TestGroupLabels(t *testing.T) {
	assert.Equal(t, "This Week", ThisWeek.String())
	assert.Equal(t, "No Date", NoDate.String())
	assert.Equal(t, "Unknown", Group(42).String())
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
