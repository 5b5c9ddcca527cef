package main

import (
	"fmt"
	"time"

	"organizese/internal/models/task"
	"organizese/internal/schedule"

	"github.com/spf13/cobra"
)

var (
	datesCycle    string
	datesEnd      string
	datesWeekends bool
)

var datesCmd = &cobra.Command{
	Use:   "dates <start-date>",
	Short: "Preview the dates a routine would occupy",
	Long: `Print the dates generated for a routine starting at <start-date>
(yyyy-MM-dd). Without --end the range is one year. At most 100 dates are
printed. An unknown cycle yields the start date only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := task.ParseDate(args[0])
		if err != nil {
			return fmt.Errorf("start date %q: expected yyyy-MM-dd", args[0])
		}

		var end *time.Time
		if datesEnd != "" {
			parsed, err := task.ParseDate(datesEnd)
			if err != nil {
				return fmt.Errorf("end date %q: expected yyyy-MM-dd", datesEnd)
			}
			end = &parsed
		}

		cycle, ok := schedule.ParseCycle(datesCycle)
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown cycle %q, only the start date is generated\n", datesCycle)
		}

		for _, date := range schedule.GenerateDates(start, end, cycle, datesWeekends) {
			fmt.Fprintln(cmd.OutOrStdout(), date)
		}
		return nil
	},
}

func init() {
	datesCmd.Flags().StringVar(&datesCycle, "cycle", string(schedule.CycleWeekly), "daily, weekly, monthly, quarterly, biannual or annual")
	datesCmd.Flags().StringVar(&datesEnd, "end", "", "Last date of the range (yyyy-MM-dd)")
	datesCmd.Flags().BoolVar(&datesWeekends, "weekends", false, "Include Saturdays and Sundays")
}
