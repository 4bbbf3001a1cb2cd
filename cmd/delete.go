package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Permanently removes a task. Use archive to hide a task instead.
Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	ctx := commandContext(cmd)

	if len(ids) == 1 {
		return mutate(ctx, func(p *planner) error {
			return deleteSingleTask(ctx, p, ids[0], yes)
		})
	}

	// Batch mode (yes is guaranteed true here).
	return mutate(ctx, func(p *planner) error {
		return runBatch(ids, func(id string) error {
			t, err := p.board.Resolve(id)
			if err != nil {
				return err
			}
			return executeDelete(ctx, p, t, os.Stderr)
		})
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(ctx context.Context, p *planner, id string, yes bool) error {
	t, err := p.board.Resolve(id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", output.ShortID(t.ID), t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := executeDelete(ctx, p, t, os.Stderr); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task %s: %s", output.ShortID(t.ID), t.Title)
	return nil
}

// executeDelete warns about dependents on warn, removes the task and logs it.
func executeDelete(ctx context.Context, p *planner, t *task.Task, warn io.Writer) error {
	for _, msg := range p.board.Dependents(t.ID) {
		fmt.Fprintf(warn, "Warning: %s\n", msg)
	}
	if err := p.src.Remove(ctx, t.ID); err != nil {
		return err
	}
	board.LogMutation(p.cfg.Dir(), board.ActionDelete, t.ID, t.Title)
	return nil
}
