package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repairBatch int

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair completion and forward histories of every task",
	Long: `Walk every task in pages of --batch and rebuild its completion history
from its forward records. Tasks that change are saved; tasks that fail to
save are counted as skipped and left for the next run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.TaskService().RepairAll(cmd.Context(), repairBatch)
		if err != nil {
			return fmt.Errorf("repairing histories: %w", err)
		}

		fmt.Printf("Checked %d tasks, repaired %d, skipped %d\n", summary.Checked, summary.Repaired, summary.Skipped)
		for _, report := range summary.Reports {
			fmt.Printf("  - %s: dropped %d, flags fixed %d, status %s -> %s\n",
				report.TaskID, report.Dropped, report.FlagsFixed, report.StatusBefore, report.StatusAfter)
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().IntVar(&repairBatch, "batch", 100, "Tasks loaded per page")
}
