package board

import (
	"time"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Grouping keys accepted by GroupBy.
const (
	GroupDate     = "date"
	GroupPriority = "priority"
	GroupTag      = "tag"
	GroupPerson   = "person"
)

// GroupFields lists every accepted grouping.
var GroupFields = []string{GroupDate, GroupPriority, GroupTag, GroupPerson}

// Group is one labelled section of a grouped listing.
type Group struct {
	Key   string       `json:"key"`
	Tasks []*task.Task `json:"tasks"`
}

const (
	untagged   = "(untagged)"
	unassigned = "(unassigned)"
)

// GroupBy partitions tasks by field. Date groups follow the bucket order;
// priority groups follow the priority order; tag and person groups follow
// the order of first appearance with the catch-all group last. A task with
// several tags or people appears in each of their groups. Empty groups are
// dropped and tasks keep their relative order. Unknown fields fall back to
// date groups.
func (b *Board) GroupBy(tasks []*task.Task, field string, now time.Time) []Group {
	switch field {
	case GroupPriority:
		return b.groupByPriority(tasks)
	case GroupTag:
		return groupByRefs(tasks, func(t *task.Task) []string { return t.TagIDs },
			func(id string) string {
				if tag, ok := b.Tag(id); ok {
					return tag.Name
				}
				return id
			}, untagged)
	case GroupPerson:
		return groupByRefs(tasks, func(t *task.Task) []string { return t.PersonIDs },
			func(id string) string {
				if p, ok := b.Person(id); ok {
					return p.Name
				}
				return id
			}, unassigned)
	default:
		buckets := bucket.GroupByDate(tasks, now)
		out := make([]Group, len(buckets))
		for i, bk := range buckets {
			out[i] = Group{Key: bk.Group.String(), Tasks: bk.Tasks}
		}
		return out
	}
}

func (b *Board) groupByPriority(tasks []*task.Task) []Group {
	byPrio := make(map[task.Priority][]*task.Task)
	for _, t := range tasks {
		byPrio[t.Priority] = append(byPrio[t.Priority], t)
	}
	var out []Group
	for _, p := range task.Priorities {
		if len(byPrio[p]) > 0 {
			out = append(out, Group{Key: string(p), Tasks: byPrio[p]})
		}
	}
	var other []*task.Task
	for _, t := range tasks {
		if !t.Priority.Valid() {
			other = append(other, t)
		}
	}
	if len(other) > 0 {
		out = append(out, Group{Key: "(other)", Tasks: other})
	}
	return out
}

func groupByRefs(tasks []*task.Task, refs func(*task.Task) []string, label func(string) string, none string) []Group {
	index := make(map[string]int)
	var out []Group
	var rest []*task.Task
	for _, t := range tasks {
		ids := refs(t)
		if len(ids) == 0 {
			rest = append(rest, t)
			continue
		}
		for _, id := range ids {
			i, ok := index[id]
			if !ok {
				i = len(out)
				index[id] = i
				out = append(out, Group{Key: label(id)})
			}
			out[i].Tasks = append(out[i].Tasks, t)
		}
	}
	if len(rest) > 0 {
		out = append(out, Group{Key: none, Tasks: rest})
	}
	return out
}
