package service

import (
	"strings"

	"organizese/internal/models/task"
	"organizese/internal/schedule"
)

const maxTitleLength = 200

func applyTemplateDefaults(tpl *task.Template, today string) {
	tpl.Title = strings.TrimSpace(tpl.Title)
	if tpl.Type == "" {
		tpl.Type = task.TypeOwnTask
	}
	if tpl.Priority == "" {
		tpl.Priority = task.PriorityNone
	}
	if tpl.TimeInvestment == "" {
		tpl.TimeInvestment = task.TimeMedium
	}
	if tpl.Category == "" {
		tpl.Category = task.CategoryPersonal
	}
	if tpl.ScheduledDate == "" && !tpl.IsRoutine {
		tpl.ScheduledDate = today
	}
	if tpl.IsRoutine && tpl.Routine != nil && tpl.Routine.StartDate == "" {
		tpl.Routine.StartDate = tpl.ScheduledDate
	}
}

func validateTemplate(tpl task.Template) error {
	if err := validateFields(tpl.Title, tpl.Type, tpl.Priority, tpl.TimeInvestment, tpl.CustomMinutes, tpl.Category); err != nil {
		return err
	}
	if tpl.IsRoutine {
		return translate(schedule.ValidateRoutine(tpl), "validate routine", resourceTask, "")
	}
	if _, err := task.ParseDate(tpl.ScheduledDate); err != nil {
		return NewValidationError("scheduled_date", "expected yyyy-MM-dd")
	}
	return nil
}

func validateTask(t *task.Task) error {
	if err := validateFields(t.Title, t.Type, t.Priority, t.TimeInvestment, t.CustomMinutes, t.Category); err != nil {
		return err
	}
	if _, err := task.ParseDate(t.ScheduledDate); err != nil {
		return NewValidationError("scheduled_date", "expected yyyy-MM-dd")
	}
	return nil
}

func validateFields(title string, typ task.Type, prio task.Priority, ti task.TimeInvestment, minutes int, cat task.Category) error {
	switch {
	case strings.TrimSpace(title) == "":
		return NewValidationError("title", "must not be empty")
	case len(title) > maxTitleLength:
		return NewValidationError("title", "too long")
	case !typ.Valid():
		return NewValidationError("type", "unknown task type "+string(typ))
	case !prio.Valid():
		return NewValidationError("priority", "unknown priority "+string(prio))
	case !ti.Valid():
		return NewValidationError("time_investment", "unknown time investment "+string(ti))
	case ti == task.TimeCustom && minutes <= 0:
		return NewValidationError("custom_minutes", "must be positive for custom time investment")
	case !cat.Valid():
		return NewValidationError("category", "unknown category "+string(cat))
	}
	return nil
}
