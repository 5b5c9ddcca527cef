package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"organizese/internal/models/person"
	repo "organizese/internal/repository"

	"github.com/google/uuid"
)

type PersonStorage struct {
	people map[uuid.UUID]person.Person
	skills map[uuid.UUID]person.Skill
	mtx    sync.RWMutex
}

func NewPersonStorage() *PersonStorage {
	return &PersonStorage{
		people: make(map[uuid.UUID]person.Person),
		skills: make(map[uuid.UUID]person.Skill),
	}
}

func (s *PersonStorage) CreatePerson(ctx context.Context, p *person.Person) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p.CreatedAt = time.Now()
	s.people[p.ID] = clonePerson(p)
	return nil
}

func (s *PersonStorage) UpdatePerson(ctx context.Context, p *person.Person) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.people[p.ID]; !ok {
		return repo.ErrNotFound
	}
	now := time.Now()
	p.UpdatedAt = &now
	s.people[p.ID] = clonePerson(p)
	return nil
}

func (s *PersonStorage) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := clonePerson(&p)
	return &c, nil
}

func (s *PersonStorage) ListPeople(ctx context.Context, ownerID uuid.UUID) ([]*person.Person, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*person.Person{}
	for _, p := range s.people {
		if p.OwnerID == ownerID {
			c := clonePerson(&p)
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res, nil
}

func (s *PersonStorage) CreateSkill(ctx context.Context, sk *person.Skill) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sk.CreatedAt = time.Now()
	s.skills[sk.ID] = *sk
	return nil
}

func (s *PersonStorage) ListSkills(ctx context.Context, ownerID uuid.UUID) ([]*person.Skill, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*person.Skill{}
	for _, sk := range s.skills {
		if sk.OwnerID == ownerID {
			c := sk
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res, nil
}

func clonePerson(p *person.Person) person.Person {
	c := *p
	c.SkillIDs = append([]uuid.UUID(nil), p.SkillIDs...)
	return c
}
