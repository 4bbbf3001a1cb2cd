package cmd

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/tui"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive view (the default command)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := view.ParseMode(cfg.Defaults.View)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal; skipped-task warnings show in the
	// status bar instead.
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(prev)

	model := tui.NewBoard(tuiBackend{}, tui.Options{View: mode, TitleLines: cfg.TitleLines()})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	go startTUIWatcher(ctx, p, watchPaths(cfg.TasksPath(), cfg.Dir()))

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, p *tea.Program, paths []string) {
	w, err := watcher.New(paths...)
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()

	go w.Run(ctx, nil)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.Changes():
			p.Send(tui.ReloadMsg{})
		}
	}
}

// tuiBackend serves the interactive board from the same storage and
// locking paths as the CLI commands.
type tuiBackend struct{}

func (tuiBackend) Load(ctx context.Context) (*board.Board, error) {
	p, err := openPlanner(ctx)
	if err != nil {
		return nil, err
	}
	defer p.close()
	return p.board, nil
}

func (tuiBackend) SetCompleted(ctx context.Context, id string, completed bool) error {
	if completed {
		return applyTransition(ctx, id, "done")
	}
	return applyTransition(ctx, id, "reopen")
}

func (tuiBackend) SetArchived(ctx context.Context, id string, archived bool) error {
	if archived {
		return applyTransition(ctx, id, "archive")
	}
	return applyTransition(ctx, id, "unarchive")
}

func (tuiBackend) Delete(ctx context.Context, id string) error {
	return mutate(ctx, func(p *planner) error {
		t, err := p.board.Resolve(id)
		if err != nil {
			return err
		}
		return executeDelete(ctx, p, t, io.Discard)
	})
}

func applyTransition(ctx context.Context, id, use string) error {
	tr := transitionFor(use)
	return mutate(ctx, func(p *planner) error {
		_, _, err := executeTransition(ctx, p, id, tr)
		return err
	})
}

// transitionFor returns the lifecycle transition registered as use.
func transitionFor(use string) transition {
	for _, tr := range transitions {
		if tr.use == use {
			return tr
		}
	}
	panic("unknown transition " + use)
}
