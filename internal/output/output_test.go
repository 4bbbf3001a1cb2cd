package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

func init() {
	DisableColor()
}

type directory struct{}

func (directory) Tag(id string) (task.Tag, bool) {
	if id == "home" {
		return task.Tag{ID: "home", Name: "Home"}, true
	}
	return task.Tag{}, false
}

func (directory) Person(id string) (task.Person, bool) {
	if id == "ann" {
		return task.Person{ID: "ann", Name: "Ann"}, true
	}
	return task.Person{}, false
}

func sample() *task.Task {
	created := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.Local)
	due := date.OnDay(date.New(2026, time.October, 21))
	bad := date.ParseInstant("soonish")
	return &task.Task{
		ID:             "01JABCDEFGHJKMNPQRSTVWXYZ0",
		Title:          "Fix the sink",
		Priority:       task.PriorityHigh,
		DueDate:        &due,
		DueQualifier:   task.DueBy,
		TargetDeadline: &bad,
		TagIDs:         []string{"home", "ghost"},
		PersonIDs:      []string{"ann"},
		Created:        created,
		Updated:        created,
		Description:    "Buy a **washer** first.",
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect(true, true, true, ""))
	assert.Equal(t, FormatCompact, Detect(false, true, true, ""))
	assert.Equal(t, FormatTable, Detect(false, true, false, "json"))
	assert.Equal(t, FormatJSON, Detect(false, false, false, "json"))
	assert.Equal(t, FormatCompact, Detect(false, false, false, "oneline"))
	assert.Equal(t, FormatTable, Detect(false, false, false, ""))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01JABCDEFGHJ", ShortID("01JABCDEFGHJKMNPQRSTVWXYZ0"))
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestTaskCompactLine(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, []*task.Task{sample()}, directory{})
	assert.Equal(t,
		"[ ] 01JABCDEFGHJ (high) Fix the sink #Home #ghost due:by_2026-10-21 deadline:soonish\n",
		buf.String())
}

func TestTaskTableShowsMalformedDate(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, []*task.Task{sample()}, directory{})
	out := buf.String()
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "Fix the sink")
	assert.Contains(t, out, "Home,ghost")
	assert.Contains(t, out, "soonish?")
}

func TestGroupedOutput(t *testing.T) {
	groups := []board.Group{{Key: "Today", Tasks: []*task.Task{sample()}}}

	var table bytes.Buffer
	GroupedTable(&table, groups, directory{})
	assert.Contains(t, table.String(), "Today (1)")

	var compact bytes.Buffer
	GroupedCompact(&compact, groups, directory{})
	assert.Contains(t, compact.String(), "Today (1)\n  [ ] 01JABCDEFGHJ")
}

func TestTaskDetail(t *testing.T) {
	tk := sample()
	tk.DependsOn = []string{"01JZZZZZZZZZZZZZZZZZZZZZZZ"}
	var buf bytes.Buffer
	TaskDetail(&buf, tk, directory{}, true)
	out := buf.String()
	assert.Contains(t, out, "Task 01JABCDEFGHJKMNPQRSTVWXYZ0: Fix the sink")
	assert.Contains(t, out, "by 2026-10-21")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "(blocked)")
	assert.Contains(t, out, "washer")
}

func TestTaskDetailCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskDetailCompact(&buf, sample(), directory{})
	out := buf.String()
	assert.Contains(t, out, "with:Ann")
	assert.Contains(t, out, "created:2026-10-19")
	assert.Contains(t, out, "  Buy a **washer** first.")
}

func TestOverview(t *testing.T) {
	ov := board.Overview{
		Planner: "home", TotalTasks: 3, Active: 2, Overdue: 1, Completed: 1, DoneToday: 1,
		Priorities: []board.PriorityCount{{Priority: task.PriorityHigh, Count: 2}},
	}
	var compact bytes.Buffer
	OverviewCompact(&compact, ov)
	assert.Contains(t, compact.String(), "home (3 tasks)")
	assert.Contains(t, compact.String(), "active: 2 (1 overdue)")
	assert.Contains(t, compact.String(), "Priority: high=2")

	var table bytes.Buffer
	OverviewTable(&table, ov)
	assert.Contains(t, table.String(), "done today")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: x", map[string]any{"id": "x"})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "TASK_NOT_FOUND", resp.Code)
	assert.Equal(t, "x", resp.Details["id"])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2d 3h", FormatDuration(51*time.Hour))
	assert.Equal(t, "1h 30m", FormatDuration(90*time.Minute))
}
