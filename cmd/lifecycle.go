package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// transition is a lifecycle change a command applies to a task.
type transition struct {
	use, short, verb, action string
	aliases                  []string
	apply                    func(*task.Task, time.Time) bool
}

var transitions = []transition{
	{
		use: "done", short: "Mark tasks completed", verb: "Completed",
		action: board.ActionComplete, aliases: []string{"complete"}, apply: task.Complete,
	},
	{
		use: "reopen", short: "Mark completed tasks active again", verb: "Reopened",
		action: board.ActionReopen, apply: task.Reopen,
	},
	{
		use: "archive", short: "Archive tasks", verb: "Archived",
		action: board.ActionArchive, apply: task.Archive,
	},
	{
		use: "unarchive", short: "Restore archived tasks", verb: "Unarchived",
		action: board.ActionUnarchive, apply: task.Unarchive,
	},
}

func init() {
	for _, tr := range transitions {
		rootCmd.AddCommand(&cobra.Command{
			Use:     tr.use + " ID[,ID,...]",
			Aliases: tr.aliases,
			Short:   tr.short,
			Long: tr.short + `. IDs may be any unique prefix.
Multiple IDs can be provided as a comma-separated list. Already-applied
changes succeed without writing.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransition(cmd, args, tr)
			},
		})
	}
}

// transitionResult wraps a task with a changed flag for JSON output.
type transitionResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

func runTransition(cmd *cobra.Command, args []string, tr transition) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	// Single ID: full output.
	if len(ids) == 1 {
		var (
			t       *task.Task
			changed bool
		)
		err = mutate(ctx, func(p *planner) error {
			var err error
			t, changed, err = executeTransition(ctx, p, ids[0], tr)
			return err
		})
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, transitionResult{Task: t, Changed: changed})
		}
		if !changed {
			output.Messagef(os.Stdout, "Task %s unchanged: %s", output.ShortID(t.ID), t.Title)
			return nil
		}
		output.Messagef(os.Stdout, "%s task %s: %s", tr.verb, output.ShortID(t.ID), t.Title)
		return nil
	}

	return mutate(ctx, func(p *planner) error {
		return runBatch(ids, func(id string) error {
			_, _, err := executeTransition(ctx, p, id, tr)
			return err
		})
	})
}

// executeTransition applies tr to the task matching id. A task already in
// the target state is returned unchanged without writing.
func executeTransition(ctx context.Context, p *planner, id string, tr transition) (*task.Task, bool, error) {
	t, err := p.board.Resolve(id)
	if err != nil {
		return nil, false, err
	}
	if !tr.apply(t, now()) {
		return t, false, nil
	}
	if err := p.save(ctx, t, tr.action, t.Title); err != nil {
		return nil, false, err
	}
	return t, true, nil
}
