package cmd

import (
	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

// addFilterFlags registers the engine filter flags shared by list and agenda.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "search title, description and tag names (case-insensitive)")
	cmd.Flags().StringSlice("priority", nil, "show only these priorities (comma-separated)")
	cmd.Flags().StringSlice("tag", nil, "show only tasks with any of these tags (IDs or names)")
	cmd.Flags().StringSlice("person", nil, "show only tasks with any of these people (IDs or names)")
	cmd.Flags().String("due", string(view.DueAll),
		"due date filter (all, today, week, overdue, past, future, next7days)")
	cmd.Flags().Bool("go-live", false, "show only tasks going live today")
}

// buildEngine creates an engine over p's tasks in mode with the filters
// from cmd's flags applied.
func buildEngine(cmd *cobra.Command, p *planner, mode view.Mode) (*view.Engine, error) {
	search, _ := cmd.Flags().GetString("search")
	e := view.New(p.board, search)
	e.SetNow(now)
	e.Show(mode)

	priorities, _ := cmd.Flags().GetStringSlice("priority")
	for _, v := range priorities {
		p, err := task.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		if err := e.TogglePriority(p); err != nil {
			return nil, err
		}
	}

	tags, _ := cmd.Flags().GetStringSlice("tag")
	tagIDs, err := p.cfg.ResolveTags(tags)
	if err != nil {
		return nil, err
	}
	for _, id := range tagIDs {
		if err := e.ToggleTag(id); err != nil {
			return nil, err
		}
	}

	people, _ := cmd.Flags().GetStringSlice("person")
	personIDs, err := p.cfg.ResolvePeople(people)
	if err != nil {
		return nil, err
	}
	for _, id := range personIDs {
		if err := e.TogglePerson(id); err != nil {
			return nil, err
		}
	}

	dueFlag, _ := cmd.Flags().GetString("due")
	due, err := view.ParseDueFilter(dueFlag)
	if err != nil {
		return nil, err
	}
	if err := e.SetFilterByDueDate(due); err != nil {
		return nil, err
	}

	goLive, _ := cmd.Flags().GetBool("go-live")
	e.SetFilterByGoLive(goLive)
	return e, nil
}
