package dto

import (
	"time"

	"organizese/internal/models/person"
	"organizese/internal/models/task"

	"github.com/google/uuid"
)

type SubItemRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type RoutineRequest struct {
	Cycle           string  `json:"cycle"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
	IncludeWeekends bool    `json:"include_weekends"`
}

type CreateTaskRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Type           string           `json:"type"`
	Priority       string           `json:"priority"`
	TimeInvestment string           `json:"time_investment"`
	CustomMinutes  int              `json:"custom_minutes"`
	Category       string           `json:"category"`
	ScheduledDate  string           `json:"scheduled_date"`
	AssigneeID     *uuid.UUID       `json:"assignee_id,omitempty"`
	SubItems       []SubItemRequest `json:"sub_items"`
	IsRoutine      bool             `json:"is_routine"`
	Routine        *RoutineRequest  `json:"routine,omitempty"`
	Position       *int             `json:"position,omitempty"`
}

func (r CreateTaskRequest) Template() task.Template {
	tpl := task.Template{
		Title:          r.Title,
		Description:    r.Description,
		Type:           task.Type(r.Type),
		Priority:       task.Priority(r.Priority),
		TimeInvestment: task.TimeInvestment(r.TimeInvestment),
		CustomMinutes:  r.CustomMinutes,
		Category:       task.Category(r.Category),
		ScheduledDate:  r.ScheduledDate,
		AssigneeID:     r.AssigneeID,
		IsRoutine:      r.IsRoutine,
		Position:       r.Position,
	}
	for _, item := range r.SubItems {
		tpl.SubItems = append(tpl.SubItems, task.SubItem{Text: item.Text, Completed: item.Completed})
	}
	if r.Routine != nil {
		tpl.Routine = &task.RoutineConfig{
			Cycle:           r.Routine.Cycle,
			StartDate:       r.Routine.StartDate,
			EndDate:         r.Routine.EndDate,
			IncludeWeekends: r.Routine.IncludeWeekends,
		}
	}
	return tpl
}

// UpdateTaskRequest carries only the fields to change. An assignee_id of the
// nil UUID clears the assignment.
type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Type           *string    `json:"type,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	TimeInvestment *string    `json:"time_investment,omitempty"`
	CustomMinutes  int        `json:"custom_minutes,omitempty"`
	Category       *string    `json:"category,omitempty"`
	ScheduledDate  *string    `json:"scheduled_date,omitempty"`
	AssigneeID     *uuid.UUID `json:"assignee_id,omitempty"`
	Position       *int       `json:"position,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.TaskOption {
	var opts []task.TaskOption
	add := func(opt task.TaskOption) {
		if opt != nil {
			opts = append(opts, opt)
		}
	}
	if r.Title != nil {
		add(task.WithTitle(*r.Title))
	}
	add(task.WithDescription(r.Description))
	if r.Type != nil {
		add(task.WithType(task.Type(*r.Type)))
	}
	if r.Priority != nil {
		add(task.WithPriority(task.Priority(*r.Priority)))
	}
	if r.TimeInvestment != nil {
		add(task.WithTimeInvestment(task.TimeInvestment(*r.TimeInvestment), r.CustomMinutes))
	}
	if r.Category != nil {
		add(task.WithCategory(task.Category(*r.Category)))
	}
	if r.ScheduledDate != nil {
		add(task.WithScheduledDate(*r.ScheduledDate))
	}
	add(task.WithAssignee(r.AssigneeID))
	return opts
}

func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Type == nil && r.Priority == nil &&
		r.TimeInvestment == nil && r.Category == nil && r.ScheduledDate == nil &&
		r.AssigneeID == nil && r.Position == nil
}

type MoveRequest struct {
	Position int `json:"position"`
}

type StatusRequest struct {
	Status       string `json:"status"`
	WasForwarded bool   `json:"was_forwarded"`
}

type ForwardRequest struct {
	NewDate     string     `json:"new_date"`
	Reason      string     `json:"reason"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
	MarkNotDone bool       `json:"mark_not_done"`
}

type SubItemTextRequest struct {
	Text string `json:"text"`
}

type TaskResponse struct {
	*task.Task
	IsOverdue bool `json:"is_overdue"`
}

// FromTask decorates a task with fields derived from today's date.
func FromTask(t *task.Task, today string) TaskResponse {
	return TaskResponse{
		Task:      t,
		IsOverdue: t.Status == task.StatusPending && t.ScheduledDate < today,
	}
}

func FromTaskList(tasks []*task.Task, today string) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, today)
	}
	return result
}

type TimelineEntry struct {
	Kind  string            `json:"kind"`
	At    time.Time         `json:"at"`
	Entry task.HistoryEntry `json:"entry"`
}

func FromTimeline(entries []task.HistoryEntry) []TimelineEntry {
	result := make([]TimelineEntry, len(entries))
	for i, e := range entries {
		result[i] = TimelineEntry{Kind: e.Kind(), At: e.At(), Entry: e}
	}
	return result
}

type CreatePersonRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	IsTeamMember bool        `json:"is_team_member"`
	SkillIDs     []uuid.UUID `json:"skill_ids"`
}

type MemberStatusRequest struct {
	Status person.MemberStatus `json:"status"`
}

type MemberSkillsRequest struct {
	SkillIDs []uuid.UUID `json:"skill_ids"`
}

type CreateSkillRequest struct {
	Name string `json:"name"`
}
