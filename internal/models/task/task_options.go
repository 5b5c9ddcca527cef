package task

import (
	"github.com/google/uuid"
)

// TaskOption mutates a task during an update. Constructors return nil when
// there is nothing to change; callers skip nil options.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return func(task *Task) {
		task.Description = *description
	}
}

func WithType(t Type) TaskOption {
	if t == "" {
		return nil
	}
	return func(task *Task) {
		task.Type = t
	}
}

func WithPriority(p Priority) TaskOption {
	if p == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = p
	}
}

func WithTimeInvestment(ti TimeInvestment, customMinutes int) TaskOption {
	if ti == "" {
		return nil
	}
	return func(task *Task) {
		task.TimeInvestment = ti
		task.CustomMinutes = 0
		if ti == TimeCustom {
			task.CustomMinutes = customMinutes
		}
	}
}

func WithCategory(c Category) TaskOption {
	if c == "" {
		return nil
	}
	return func(task *Task) {
		task.Category = c
	}
}

func WithScheduledDate(date string) TaskOption {
	if date == "" {
		return nil
	}
	return func(task *Task) {
		task.ScheduledDate = date
	}
}

// WithAssignee sets the assignee; uuid.Nil clears it.
func WithAssignee(id *uuid.UUID) TaskOption {
	if id == nil {
		return nil
	}
	return func(task *Task) {
		if *id == uuid.Nil {
			task.AssigneeID = nil
			return
		}
		assignee := *id
		task.AssigneeID = &assignee
	}
}
