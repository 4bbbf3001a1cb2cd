// Package cmd implements the effort CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/filelock"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

// env holds EFFORT_* settings, read once in PersistentPreRunE.
var env = &config.Env{}

// now is the clock used by every command. Tests replace it.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "effort",
	Short: "Personal task planner",
	Long: `effort keeps tasks as markdown files (or in SQLite) and shows them grouped
by target deadline: overdue, today, tomorrow, this week and beyond.
Run effort with no arguments to open the interactive view.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	RunE:              runTUI,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to planner directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.LoadEnv()
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	env = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: env.SlogLevel(),
	})))

	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		output.DisableColor()
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the planner directory: --dir, then EFFORT_DIR, then
// the nearest .effort directory above the working directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env.Dir != "" {
		return env.Dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the planner config with environment overrides.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.New(clierr.PlannerNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	if err != nil {
		return nil, err
	}
	env.Apply(cfg)
	return cfg, nil
}

// planner bundles what most commands need: config, storage and a loaded
// snapshot of the tasks.
type planner struct {
	cfg   *config.Config
	src   board.Source
	board *board.Board
}

// openPlanner loads config and tasks. Callers must call close.
func openPlanner(ctx context.Context) (*planner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	src, err := board.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b, err := board.Load(ctx, cfg, src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return &planner{cfg: cfg, src: src, board: b}, nil
}

func (p *planner) close() {
	if err := p.src.Close(); err != nil {
		slog.Warn("closing storage", "err", err)
	}
}

// mutate runs fn while holding the planner lock, on a freshly loaded
// snapshot so concurrent writers never overwrite each other.
func mutate(ctx context.Context, fn func(p *planner) error) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	lock, err := filelock.Acquire(ctx, dir)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer lock.Release() //nolint:errcheck // best-effort unlock on exit

	p, err := openPlanner(ctx)
	if err != nil {
		return err
	}
	defer p.close()
	return fn(p)
}

// save persists t and records the action in the activity log.
func (p *planner) save(ctx context.Context, t *task.Task, action, detail string) error {
	t.Updated = now()
	if err := p.src.Save(ctx, t); err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	board.LogMutation(p.cfg.Dir(), action, t.ID, detail)
	return nil
}

// commandContext returns cmd's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact, env.Output)
}

// parseIDs splits a comma-separated ID list, dropping blanks and duplicates.
func parseIDs(arg string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(arg, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[strings.ToUpper(id)] {
			continue
		}
		seen[strings.ToUpper(id)] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidInput, "at least one task ID is required")
	}
	return ids, nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []string, fn func(string) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: id, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
