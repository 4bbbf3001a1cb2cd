package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
IDs may be any unique prefix. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().String("due", "", "new due date")
	editCmd.Flags().Bool("clear-due", false, "clear due date")
	editCmd.Flags().String("due-qualifier", "", "due on the date or by it (on, by)")
	editCmd.Flags().String("deadline", "", "new target deadline")
	editCmd.Flags().Bool("clear-deadline", false, "clear target deadline")
	editCmd.Flags().String("go-live", "", "new go-live date")
	editCmd.Flags().Bool("clear-go-live", false, "clear go-live date")
	editCmd.Flags().StringSlice("add-tag", nil, "add tags")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags")
	editCmd.Flags().StringSlice("add-person", nil, "add people")
	editCmd.Flags().StringSlice("remove-person", nil, "remove people")
	editCmd.Flags().StringSlice("add-dep", nil, "add dependency task IDs")
	editCmd.Flags().StringSlice("remove-dep", nil, "remove dependency task IDs")
	editCmd.Flags().String("description", "", "new description (replaces entire description)")
	editCmd.Flags().StringP("append-description", "a", "", "append text to the description")
	editCmd.Flags().BoolP("timestamp", "t", false, "prefix a timestamp line when appending")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	// Single ID: full output.
	if len(ids) == 1 {
		var edited *task.Task
		err = mutate(ctx, func(p *planner) error {
			t, err := executeEdit(ctx, p, ids[0], cmd)
			edited = t
			return err
		})
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, edited)
		}
		output.Messagef(os.Stdout, "Updated task %s: %s", output.ShortID(edited.ID), edited.Title)
		return nil
	}

	return mutate(ctx, func(p *planner) error {
		return runBatch(ids, func(id string) error {
			_, err := executeEdit(ctx, p, id, cmd)
			return err
		})
	})
}

// executeEdit performs the core edit: resolve, apply, validate, save, log.
func executeEdit(ctx context.Context, p *planner, id string, cmd *cobra.Command) (*task.Task, error) {
	t, err := p.board.Resolve(id)
	if err != nil {
		return nil, err
	}

	changed, err := applyEditChanges(cmd, p, t)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, clierr.New(clierr.NoChanges, "no changes specified").
			WithDetails(map[string]any{"id": t.ID})
	}

	if err := p.save(ctx, t, board.ActionEdit, t.Title); err != nil {
		return nil, err
	}
	return t, nil
}

//nolint:gocognit,gocyclo,cyclop,funlen // one branch per flag
func applyEditChanges(cmd *cobra.Command, p *planner, t *task.Task) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		v = strings.TrimSpace(v)
		if v == "" {
			return false, clierr.New(clierr.InvalidInput, "title cannot be blank")
		}
		t.Title = v
		changed = true
	}
	for _, apply := range []func(*cobra.Command, *task.Task) (bool, error){applyPriority, applyDueQualifier} {
		c, err := apply(cmd, t)
		if err != nil {
			return false, err
		}
		changed = changed || c
	}
	c, err := applyDates(cmd, t, true)
	if err != nil {
		return false, err
	}
	changed = changed || c
	if t.DueDate != nil && t.DueQualifier == "" {
		t.DueQualifier = task.DueQualifier(p.cfg.Defaults.DueQualifier)
	}

	if refs, _ := cmd.Flags().GetStringSlice("add-tag"); len(refs) > 0 {
		ids, err := p.cfg.ResolveTags(refs)
		if err != nil {
			return false, err
		}
		t.TagIDs = addAll(t.TagIDs, ids)
		changed = true
	}
	if refs, _ := cmd.Flags().GetStringSlice("remove-tag"); len(refs) > 0 {
		ids, err := p.cfg.ResolveTags(refs)
		if err != nil {
			return false, err
		}
		t.TagIDs = removeAll(t.TagIDs, ids)
		changed = true
	}
	if refs, _ := cmd.Flags().GetStringSlice("add-person"); len(refs) > 0 {
		ids, err := p.cfg.ResolvePeople(refs)
		if err != nil {
			return false, err
		}
		t.PersonIDs = addAll(t.PersonIDs, ids)
		changed = true
	}
	if refs, _ := cmd.Flags().GetStringSlice("remove-person"); len(refs) > 0 {
		ids, err := p.cfg.ResolvePeople(refs)
		if err != nil {
			return false, err
		}
		t.PersonIDs = removeAll(t.PersonIDs, ids)
		changed = true
	}
	if refs, _ := cmd.Flags().GetStringSlice("add-dep"); len(refs) > 0 {
		ids, err := resolveDeps(p.board, t.ID, refs)
		if err != nil {
			return false, err
		}
		t.DependsOn = addAll(t.DependsOn, ids)
		changed = true
	}
	if refs, _ := cmd.Flags().GetStringSlice("remove-dep"); len(refs) > 0 {
		var ids []string
		for _, ref := range refs {
			if dep, err := p.board.Resolve(ref); err == nil {
				ids = append(ids, dep.ID)
			} else {
				ids = append(ids, ref)
			}
		}
		t.DependsOn = removeAll(t.DependsOn, ids)
		changed = true
	}

	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		t.Description = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("append-description"); v != "" {
		if ts, _ := cmd.Flags().GetBool("timestamp"); ts {
			v = "[[" + now().Format("2006-01-02 15:04") + "]] " + v
		}
		if t.Description != "" {
			t.Description += "\n\n"
		}
		t.Description += v
		changed = true
	}

	return changed, nil
}
