package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/watcher"
)

var agendaCmd = &cobra.Command{
	Use:     "agenda",
	Aliases: []string{"board"},
	Short:   "Show open tasks grouped by deadline",
	Long: `Displays open tasks grouped by target deadline, with the number of active
filters and the tasks completed today. Use --summary for task counts instead.

Use --watch to keep the display live-updating. The agenda re-renders
automatically whenever tasks change on disk (e.g., from another terminal).
Press Ctrl+C to stop.`,
	RunE: runAgenda,
}

func init() {
	addFilterFlags(agendaCmd)
	agendaCmd.Flags().Bool("today", false, "show only tasks due, going live or with a deadline today")
	agendaCmd.Flags().Bool("summary", false, "show task counts instead of tasks")
	agendaCmd.Flags().BoolP("watch", "w", false, "live-update the agenda on file changes")
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	// Render once.
	if err := renderAgenda(ctx, cmd); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	return watchAgenda(ctx, cmd)
}

func renderAgenda(ctx context.Context, cmd *cobra.Command) error {
	p, err := openPlanner(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		return outputSummary(p.board.Summary(now()))
	}

	mode := view.ModeActive
	if today, _ := cmd.Flags().GetBool("today"); today {
		mode = view.ModeToday
	}
	e, err := buildEngine(cmd, p, mode)
	if err != nil {
		return err
	}

	buckets, skipped := e.Groups()
	board.ReportSkipped(skipped)

	resp := output.ListResponse{
		State:       e.State(),
		FilterCount: e.ActiveFilterCount(),
		Skipped:     taskIDs(skipped),
		DoneToday:   len(p.board.CompletedToday(now())),
	}
	for _, bk := range buckets {
		resp.Groups = append(resp.Groups, board.Group{Key: bk.Group.String(), Tasks: bk.Tasks})
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, resp)
	}
	fmt.Fprintln(os.Stdout, agendaHeader(p.board.Name(), resp))
	if outputFormat() == output.FormatCompact {
		output.GroupedCompact(os.Stdout, resp.Groups, p.board)
		return nil
	}
	output.GroupedTable(os.Stdout, resp.Groups, p.board)
	return nil
}

// agendaHeader summarizes the view, the filter badge and today's completions.
func agendaHeader(name string, resp output.ListResponse) string {
	parts := []string{name, resp.State.Mode.String()}
	if resp.FilterCount > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", resp.FilterCount))
	}
	if resp.State.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", resp.State.Search))
	}
	parts = append(parts, fmt.Sprintf("%d done today", resp.DoneToday))
	return strings.Join(parts, " · ")
}

func outputSummary(ov board.Overview) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, ov)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, ov)
	default:
		output.OverviewTable(os.Stdout, ov)
	}
	return nil
}

func watchAgenda(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Watch both the tasks directory and the planner directory (config and database).
	w, err := watcher.New(watchPaths(cfg.TasksPath(), cfg.Dir())...)
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	go w.Run(ctx, func(watchErr error) {
		slog.Warn("file watcher", "err", watchErr)
	})

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes():
			clearScreen()
			if err := renderAgenda(ctx, cmd); err != nil {
				slog.Warn("rendering agenda", "err", err)
			}
		}
	}
}

// watchPaths returns the paths that exist, so a sqlite planner without a
// tasks directory can still be watched.
func watchPaths(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
