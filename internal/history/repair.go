package history

import (
	"organizese/internal/models/task"

	"github.com/google/uuid"
)

type RepairReport struct {
	TaskID       uuid.UUID   `json:"task_id"`
	FlagsFixed   int         `json:"flags_fixed"`
	Dropped      int         `json:"dropped"`
	StatusBefore task.Status `json:"status_before"`
	StatusAfter  task.Status `json:"status_after"`
}

func (r RepairReport) Changed() bool {
	return r.FlagsFixed > 0 || r.Dropped > 0 || r.StatusBefore != r.StatusAfter
}

// Repair reconciles the completion log with the forward log and the current
// scheduled date. WasForwarded is recomputed from forward origin dates and
// completions recorded for another date are dropped. The input is untouched.
func Repair(t *task.Task) (*task.Task, RepairReport) {
	fixed := t.Clone()
	report := RepairReport{TaskID: t.ID, StatusBefore: t.Status}

	forwardedFrom := make(map[string]bool, len(t.ForwardHistory))
	for _, f := range t.ForwardHistory {
		if f.Outbound() {
			forwardedFrom[f.OriginDate] = true
		}
	}

	kept := make([]task.CompletionRecord, 0, len(fixed.CompletionHistory))
	for _, c := range fixed.CompletionHistory {
		if c.Date != fixed.ScheduledDate {
			report.Dropped++
			continue
		}
		if want := forwardedFrom[c.Date]; c.WasForwarded != want {
			c.WasForwarded = want
			report.FlagsFixed++
		}
		kept = append(kept, c)
	}
	fixed.CompletionHistory = kept
	fixed.ProjectStatus()

	report.StatusAfter = fixed.Status
	return fixed, report
}
