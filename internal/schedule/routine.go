package schedule

import (
	"fmt"
	"time"

	"organizese/internal/models/task"
)

// ValidationError describes a template that cannot be expanded.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateRoutine checks the routine part of a template. Non-routine
// templates always pass.
func ValidateRoutine(tpl task.Template) error {
	if !tpl.IsRoutine {
		return nil
	}
	if tpl.Routine == nil || tpl.Routine.Cycle == "" {
		return &ValidationError{Field: "routine.cycle", Reason: "routine tasks must declare a cycle"}
	}
	if tpl.Routine.StartDate == "" {
		return &ValidationError{Field: "routine.start_date", Reason: "routine tasks must declare a start date"}
	}
	start, err := task.ParseDate(tpl.Routine.StartDate)
	if err != nil {
		return &ValidationError{Field: "routine.start_date", Reason: "expected yyyy-MM-dd"}
	}
	if tpl.Routine.EndDate != nil {
		end, err := task.ParseDate(*tpl.Routine.EndDate)
		if err != nil {
			return &ValidationError{Field: "routine.end_date", Reason: "expected yyyy-MM-dd"}
		}
		if !end.After(start) {
			return &ValidationError{Field: "routine.end_date", Reason: "end date must be after start date"}
		}
	}
	return nil
}

// Expand turns a template into creation payloads. IDs and timestamps are
// left for the caller; order is baseOrder plus the index in the batch.
func Expand(tpl task.Template, baseOrder int) ([]*task.Task, error) {
	if err := ValidateRoutine(tpl); err != nil {
		return nil, err
	}
	if !tpl.IsRoutine {
		return []*task.Task{newPayload(tpl, tpl.Title, tpl.ScheduledDate, baseOrder)}, nil
	}

	start, _ := task.ParseDate(tpl.Routine.StartDate)
	var end *time.Time
	if tpl.Routine.EndDate != nil {
		e, _ := task.ParseDate(*tpl.Routine.EndDate)
		end = &e
	}
	cycle, _ := ParseCycle(tpl.Routine.Cycle)
	dates := GenerateDates(start, end, cycle, tpl.Routine.IncludeWeekends)

	payloads := make([]*task.Task, 0, len(dates))
	for i, date := range dates {
		title := tpl.Title
		if len(dates) > 1 && i > 0 {
			title = fmt.Sprintf("%s (#%d)", tpl.Title, i+1)
		}
		payloads = append(payloads, newPayload(tpl, title, date, baseOrder+i))
	}
	return payloads, nil
}

func newPayload(tpl task.Template, title, date string, order int) *task.Task {
	t := &task.Task{
		OwnerID:           tpl.OwnerID,
		Title:             title,
		Description:       tpl.Description,
		Type:              tpl.Type,
		Priority:          tpl.Priority,
		TimeInvestment:    tpl.TimeInvestment,
		CustomMinutes:     tpl.CustomMinutes,
		Category:          tpl.Category,
		ScheduledDate:     date,
		SubItems:          append([]task.SubItem{}, tpl.SubItems...),
		Order:             order,
		IsRoutine:         tpl.IsRoutine,
		Status:            task.StatusPending,
		CompletionHistory: []task.CompletionRecord{},
		ForwardHistory:    []task.ForwardRecord{},
	}
	if tpl.AssigneeID != nil {
		id := *tpl.AssigneeID
		t.AssigneeID = &id
	}
	t.ProjectStatus()
	return t
}
