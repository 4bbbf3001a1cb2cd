package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task including its markdown description.
ID may be any unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := openPlanner(commandContext(cmd))
	if err != nil {
		return err
	}
	defer p.close()

	t, err := p.board.Resolve(args[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, p.board)
	default:
		output.TaskDetail(os.Stdout, t, p.board, p.board.Blocked(t))
	}
	return nil
}
