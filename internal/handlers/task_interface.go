package handlers

import (
	"context"

	"organizese/internal/history"
	"organizese/internal/models/person"
	"organizese/internal/models/task"
	"organizese/internal/ordering"
	"organizese/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(context.Context) error
	Today() string
	CreateTask(context.Context, task.Template) (*service.CreateResult, error)
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	ListByDate(ctx context.Context, date string) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, position *int, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) (ordering.Plan, error)
	MoveTask(ctx context.Context, id uuid.UUID, position int) (ordering.Plan, error)
	NextOrder(ctx context.Context, date string) (int, error)
	NormalizeDate(ctx context.Context, date string) (ordering.Plan, error)
	SetStatus(ctx context.Context, id uuid.UUID, status task.Status, wasForwarded bool) (*task.Task, error)
	ForwardTask(context.Context, uuid.UUID, service.ForwardRequest) (*service.ForwardResult, error)
	ForwardChain(context.Context, uuid.UUID) ([]*task.Task, error)
	Timeline(context.Context, uuid.UUID) ([]task.HistoryEntry, error)
	RepairTask(context.Context, uuid.UUID) (*task.Task, history.RepairReport, error)
	RepairAll(ctx context.Context, batchSize int) (service.RepairSummary, error)
	AddSubItem(ctx context.Context, id uuid.UUID, text string) (*task.Task, error)
	ToggleSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error)
	RemoveSubItem(ctx context.Context, id, itemID uuid.UUID) (*task.Task, error)
}

type PeopleService interface {
	CreatePerson(context.Context, service.PersonInput) (*person.Person, error)
	GetPerson(context.Context, uuid.UUID) (*person.Person, error)
	ListPeople(context.Context) ([]*person.Person, error)
	SetMemberStatus(context.Context, uuid.UUID, person.MemberStatus) (*person.Person, error)
	SetMemberSkills(context.Context, uuid.UUID, []uuid.UUID) (*person.Person, error)
	CreateSkill(ctx context.Context, name string) (*person.Skill, error)
	ListSkills(context.Context) ([]*person.Skill, error)
}

var (
	_ TaskService   = (*service.TaskService)(nil)
	_ PeopleService = (*service.PeopleService)(nil)
)
