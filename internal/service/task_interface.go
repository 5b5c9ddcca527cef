package service

import (
	"context"

	"organizese/internal/models/person"
	"organizese/internal/models/task"
	"organizese/internal/ordering"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	CreateBatch(context.Context, []*task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	ListByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]*task.Task, error)
	ApplyOrder(context.Context, []ordering.Adjustment) error
	Delete(context.Context, uuid.UUID) error
	ListPage(ctx context.Context, page, limit int) ([]*task.Task, error)
}

type PersonRepository interface {
	CreatePerson(context.Context, *person.Person) error
	UpdatePerson(context.Context, *person.Person) error
	GetPerson(context.Context, uuid.UUID) (*person.Person, error)
	ListPeople(ctx context.Context, ownerID uuid.UUID) ([]*person.Person, error)
	CreateSkill(context.Context, *person.Skill) error
	ListSkills(ctx context.Context, ownerID uuid.UUID) ([]*person.Skill, error)
}

// Directory answers whether a person id may be used for assignment.
type Directory interface {
	Exists(ctx context.Context, ownerID, personID uuid.UUID) (bool, error)
}
