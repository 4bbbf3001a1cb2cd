package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Create a new task",
	Long: `Creates a new task with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Tags and people must be declared first (effort tag add, effort person add)
and may be given by ID or name. Dates use YYYY-MM-DD or RFC 3339.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	addCmd.Flags().String("priority", "", "task priority (default from config)")
	addCmd.Flags().String("due", "", "due date")
	addCmd.Flags().String("due-qualifier", "", "due on the date or by it (on, by; default from config)")
	addCmd.Flags().String("deadline", "", "target deadline (drives date grouping)")
	addCmd.Flags().String("go-live", "", "go-live date")
	addCmd.Flags().StringSlice("tag", nil, "tags (comma-separated IDs or names)")
	addCmd.Flags().StringSlice("person", nil, "people (comma-separated IDs or names)")
	addCmd.Flags().StringSlice("depends-on", nil, "dependency task IDs (comma-separated)")
	addCmd.Flags().String("description", "", "task description (markdown)")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tags":
			name = "tag"
		case "people":
			name = "person"
		case "body":
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, err := resolveTitle(cmd, args)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	var created *task.Task
	err = mutate(ctx, func(p *planner) error {
		t := task.New(title, now())
		t.Priority = task.Priority(p.cfg.Defaults.Priority)
		if err := applyAddFlags(cmd, p, t); err != nil {
			return err
		}
		created = t
		return p.save(ctx, t, board.ActionCreate, t.Title)
	})
	if err != nil {
		return err
	}
	return outputAddResult(created)
}

func applyAddFlags(cmd *cobra.Command, p *planner, t *task.Task) error {
	if _, err := applyPriority(cmd, t); err != nil {
		return err
	}
	if _, err := applyDates(cmd, t, false); err != nil {
		return err
	}
	if _, err := applyDueQualifier(cmd, t); err != nil {
		return err
	}
	if t.DueDate != nil && t.DueQualifier == "" {
		t.DueQualifier = task.DueQualifier(p.cfg.Defaults.DueQualifier)
	}
	if refs, _ := cmd.Flags().GetStringSlice("tag"); len(refs) > 0 {
		ids, err := p.cfg.ResolveTags(refs)
		if err != nil {
			return err
		}
		t.TagIDs = addAll(nil, ids)
	}
	if refs, _ := cmd.Flags().GetStringSlice("person"); len(refs) > 0 {
		ids, err := p.cfg.ResolvePeople(refs)
		if err != nil {
			return err
		}
		t.PersonIDs = addAll(nil, ids)
	}
	if refs, _ := cmd.Flags().GetStringSlice("depends-on"); len(refs) > 0 {
		ids, err := resolveDeps(p.board, t.ID, refs)
		if err != nil {
			return err
		}
		t.DependsOn = addAll(nil, ids)
	}
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		t.Description = v
	}
	return nil
}

func outputAddResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task %s: %s", output.ShortID(t.ID), t.Title)
	if t.File != "" {
		output.Messagef(os.Stdout, "  File: %s", t.File)
	}
	output.Messagef(os.Stdout, "  Priority: %s", t.Priority)
	if t.TargetDeadline != nil {
		output.Messagef(os.Stdout, "  Deadline: %s", t.TargetDeadline)
	}
	if len(t.TagIDs) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(t.TagIDs, ", "))
	}
	return nil
}

// resolveTitle returns the task title from either the positional arg or --title flag.
func resolveTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	var title string
	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		title = args[0]
	case hasFlag:
		title = flagTitle
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", clierr.New(clierr.InvalidInput, "title is required: provide it as an argument or with --title")
	}
	return title, nil
}
