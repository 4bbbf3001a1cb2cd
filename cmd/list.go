package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/bucket"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the tasks visible in a view, after search and filters.

The completed and archived views apply the search term but ignore filters.
Use --group to split the list into sections; date groups follow the target
deadline (overdue, today, tomorrow, this week, next week, this month, future,
no date) and are only available in the active and today views.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("view", "", "view (active, today, completed, archived; default from config)")
	addFilterFlags(listCmd)
	listCmd.Flags().String("group", "", "group results by field ("+strings.Join(board.GroupFields, ", ")+")")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(board.SortFields, ", ")+"; default keeps creation order)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().Bool("unblocked", false, "show only tasks whose dependencies are all done")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group")
	if groupBy != "" && !slices.Contains(board.GroupFields, groupBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --group field %q; valid: %s",
			groupBy, strings.Join(board.GroupFields, ", "))
	}
	sortBy, _ := cmd.Flags().GetString("sort")
	if sortBy != "" && !slices.Contains(board.SortFields, sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.SortFields, ", "))
	}

	p, err := openPlanner(commandContext(cmd))
	if err != nil {
		return err
	}
	defer p.close()

	viewName, _ := cmd.Flags().GetString("view")
	if viewName == "" {
		viewName = p.cfg.Defaults.View
	}
	mode, err := view.ParseMode(viewName)
	if err != nil {
		return err
	}
	if groupBy == board.GroupDate && !mode.Grouped() {
		return clierr.Newf(clierr.InvalidInput, "the %s view is not grouped by date", mode).
			WithDetails(map[string]any{"view": mode.String(), "group": groupBy})
	}

	e, err := buildEngine(cmd, p, mode)
	if err != nil {
		return err
	}

	tasks := e.VisibleTasks()
	if unblocked, _ := cmd.Flags().GetBool("unblocked"); unblocked {
		tasks = p.board.Unblocked(tasks)
	}
	if sortBy != "" {
		reverse, _ := cmd.Flags().GetBool("reverse")
		board.Sort(tasks, sortBy, reverse)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	resp := output.ListResponse{State: e.State(), FilterCount: e.ActiveFilterCount()}
	if groupBy == "" {
		resp.Tasks = tasks
		return outputTaskList(p.board, resp)
	}

	resp.Groups = p.board.GroupBy(tasks, groupBy, now())
	if groupBy == board.GroupDate {
		skipped := bucket.InvalidDates(tasks)
		board.ReportSkipped(skipped)
		resp.Skipped = taskIDs(skipped)
	}
	return outputGroupedList(p.board, resp)
}

func outputGroupedList(dir output.Directory, resp output.ListResponse) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, resp)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, resp.Groups, dir)
	default:
		output.GroupedTable(os.Stdout, resp.Groups, dir)
	}
	return nil
}

func outputTaskList(dir output.Directory, resp output.ListResponse) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, resp)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, resp.Tasks, dir)
	default:
		output.TaskTable(os.Stdout, resp.Tasks, dir)
	}
	return nil
}

func taskIDs(tasks []*task.Task) []string {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
