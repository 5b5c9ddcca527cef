package task

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of a scheduled date.
const DateLayout = "2006-01-02"

type Task struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	OwnerID        uuid.UUID      `json:"owner_id" db:"owner_id"`
	Title          string         `json:"title" db:"title"`
	Description    string         `json:"description" db:"description"`
	Type           Type           `json:"type" db:"type"`
	Priority       Priority       `json:"priority" db:"priority"`
	TimeInvestment TimeInvestment `json:"time_investment" db:"time_investment"`
	CustomMinutes  int            `json:"custom_minutes,omitempty" db:"custom_minutes"`
	Category       Category       `json:"category" db:"category"`
	ScheduledDate  string         `json:"scheduled_date" db:"scheduled_date"`
	AssigneeID     *uuid.UUID     `json:"assignee_id,omitempty" db:"assignee_id"`
	SubItems       []SubItem      `json:"sub_items" db:"sub_items"`
	Order          int            `json:"order" db:"position"`

	IsRoutine   bool `json:"is_routine" db:"is_routine"`
	IsForwarded bool `json:"is_forwarded" db:"is_forwarded"`
	IsConcluded bool `json:"is_concluded" db:"is_concluded"`
	IsProcessed bool `json:"is_processed" db:"is_processed"`

	Status            Status             `json:"status" db:"status"`
	ForwardCount      int                `json:"forward_count" db:"forward_count"`
	CompletionHistory []CompletionRecord `json:"completion_history" db:"completion_history"`
	ForwardHistory    []ForwardRecord    `json:"forward_history" db:"forward_history"`
	OriginTaskID      *uuid.UUID         `json:"origin_task_id,omitempty" db:"origin_task_id"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version   int        `json:"version" db:"version"`
}

type SubItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
}

// RoutineConfig describes how a template expands into a series of tasks.
// It lives on the creation template only; expanded tasks keep IsRoutine.
type RoutineConfig struct {
	Cycle           string  `json:"cycle"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
	IncludeWeekends bool    `json:"include_weekends"`
}

// Template is everything needed to create one or more tasks.
type Template struct {
	OwnerID        uuid.UUID
	Title          string
	Description    string
	Type           Type
	Priority       Priority
	TimeInvestment TimeInvestment
	CustomMinutes  int
	Category       Category
	ScheduledDate  string
	AssigneeID     *uuid.UUID
	SubItems       []SubItem
	IsRoutine      bool
	Routine        *RoutineConfig
	// Position, when set, is the requested slot on the scheduled date.
	Position *int
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusNotDone   Status = "not_done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusNotDone:
		return true
	}
	return false
}

type Type string

const (
	TypeMeeting       Type = "meeting"
	TypeOwnTask       Type = "own_task"
	TypeDelegatedTask Type = "delegated_task"
)

func (t Type) Valid() bool {
	switch t {
	case TypeMeeting, TypeOwnTask, TypeDelegatedTask:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityPriority Priority = "priority"
	PriorityExtreme  Priority = "extreme"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityPriority, PriorityExtreme:
		return true
	}
	return false
}

type TimeInvestment string

const (
	TimeLow    TimeInvestment = "low"
	TimeMedium TimeInvestment = "medium"
	TimeHigh   TimeInvestment = "high"
	TimeCustom TimeInvestment = "custom"
)

func (t TimeInvestment) Valid() bool {
	switch t {
	case TimeLow, TimeMedium, TimeHigh, TimeCustom:
		return true
	}
	return false
}

type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryBusiness Category = "business"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryBusiness:
		return true
	}
	return false
}

// ProjectStatus derives the live status and flags from the completion log.
// The status always mirrors the latest completion record, pending when there is none.
func (t *Task) ProjectStatus() {
	t.Status = StatusPending
	if n := len(t.CompletionHistory); n > 0 {
		t.Status = t.CompletionHistory[n-1].Status
	}
	t.IsConcluded = t.Status == StatusCompleted
	t.IsProcessed = t.Status != StatusPending
}

// Clone returns a deep copy so callers can mutate histories without aliasing.
func (t *Task) Clone() *Task {
	c := *t
	c.SubItems = append([]SubItem(nil), t.SubItems...)
	c.CompletionHistory = append([]CompletionRecord(nil), t.CompletionHistory...)
	c.ForwardHistory = append([]ForwardRecord(nil), t.ForwardHistory...)
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		c.AssigneeID = &id
	}
	if t.OriginTaskID != nil {
		id := *t.OriginTaskID
		c.OriginTaskID = &id
	}
	if t.UpdatedAt != nil {
		ts := *t.UpdatedAt
		c.UpdatedAt = &ts
	}
	return &c
}

// ParseDate parses a scheduled date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
