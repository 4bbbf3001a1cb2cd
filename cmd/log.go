package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Long:  `Lists the most recent changes recorded in the planner's activity log, oldest first.`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := board.ReadLog(cfg.Dir(), limit)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%s %s %s\n", e.Timestamp.Local().Format("2006-01-02T15:04"), e.Action, output.ShortID(e.TaskID))
		}
	default:
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No activity recorded.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%s  %-10s %s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, output.ShortID(e.TaskID), e.Detail)
		}
	}
	return nil
}
