package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"organizese/internal/logger"
	"organizese/internal/models/person"
	repo "organizese/internal/repository"
	"organizese/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	resourcePerson = "person"
	resourceSkill  = "skill"
)

type PeopleService struct {
	repo PersonRepository
}

func NewPeopleService(repo PersonRepository) *PeopleService {
	return &PeopleService{repo: repo}
}

type PersonInput struct {
	Name         string
	Email        string
	IsTeamMember bool
	SkillIDs     []uuid.UUID
}

func (s *PeopleService) CreatePerson(ctx context.Context, in PersonInput) (*person.Person, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "create person", resourcePerson, "")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, NewValidationError("email", "not a valid address")
		}
	}

	p := &person.Person{
		ID:           uuid.New(),
		OwnerID:      owner,
		Name:         name,
		Email:        email,
		IsTeamMember: in.IsTeamMember,
		SkillIDs:     []uuid.UUID{},
	}
	if in.IsTeamMember {
		p.Status = person.StatusActive
		if err := s.checkSkills(ctx, owner, in.SkillIDs); err != nil {
			return nil, err
		}
		p.SkillIDs = append(p.SkillIDs, in.SkillIDs...)
	}

	if err := s.repo.CreatePerson(ctx, p); err != nil {
		return nil, translate(err, "create person", resourcePerson, p.ID.String())
	}
	logger.Info("Service: person created", zap.String("person_id", p.ID.String()), zap.Bool("team_member", p.IsTeamMember))
	return p, nil
}

func (s *PeopleService) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "get person", resourcePerson, id.String())
	}
	p, err := s.repo.GetPerson(ctx, id)
	if err != nil {
		return nil, translate(err, "get person", resourcePerson, id.String())
	}
	if p.OwnerID != owner {
		return nil, NewNotFound(resourcePerson, id.String())
	}
	return p, nil
}

func (s *PeopleService) ListPeople(ctx context.Context) ([]*person.Person, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "list people", resourcePerson, "")
	}
	people, err := s.repo.ListPeople(ctx, owner)
	if err != nil {
		return nil, translate(err, "list people", resourcePerson, "")
	}
	return people, nil
}

func (s *PeopleService) SetMemberStatus(ctx context.Context, id uuid.UUID, status person.MemberStatus) (*person.Person, error) {
	if !status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("expected %q or %q", person.StatusActive, person.StatusInactive))
	}
	p, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsTeamMember {
		return nil, NewValidationError("status", "only team members carry a status")
	}
	p.Status = status
	if err := s.repo.UpdatePerson(ctx, p); err != nil {
		return nil, translate(err, "set member status", resourcePerson, id.String())
	}
	return p, nil
}

func (s *PeopleService) SetMemberSkills(ctx context.Context, id uuid.UUID, skillIDs []uuid.UUID) (*person.Person, error) {
	p, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsTeamMember {
		return nil, NewValidationError("skill_ids", "only team members carry skills")
	}
	if err := s.checkSkills(ctx, p.OwnerID, skillIDs); err != nil {
		return nil, err
	}
	p.SkillIDs = append([]uuid.UUID{}, skillIDs...)
	if err := s.repo.UpdatePerson(ctx, p); err != nil {
		return nil, translate(err, "set member skills", resourcePerson, id.String())
	}
	return p, nil
}

func (s *PeopleService) CreateSkill(ctx context.Context, name string) (*person.Skill, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "create skill", resourceSkill, "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}

	existing, err := s.repo.ListSkills(ctx, owner)
	if err != nil {
		return nil, translate(err, "create skill", resourceSkill, "")
	}
	for _, sk := range existing {
		if strings.EqualFold(sk.Name, name) {
			return nil, NewValidationError("name", fmt.Sprintf("skill %q already exists", sk.Name))
		}
	}

	sk := &person.Skill{ID: uuid.New(), OwnerID: owner, Name: name}
	if err := s.repo.CreateSkill(ctx, sk); err != nil {
		return nil, translate(err, "create skill", resourceSkill, sk.ID.String())
	}
	return sk, nil
}

func (s *PeopleService) ListSkills(ctx context.Context) ([]*person.Skill, error) {
	owner, err := session.OwnerFromContext(ctx)
	if err != nil {
		return nil, translate(err, "list skills", resourceSkill, "")
	}
	skills, err := s.repo.ListSkills(ctx, owner)
	if err != nil {
		return nil, translate(err, "list skills", resourceSkill, "")
	}
	return skills, nil
}

// Exists implements Directory for the task service. Inactive team members
// cannot receive new work.
func (s *PeopleService) Exists(ctx context.Context, ownerID, personID uuid.UUID) (bool, error) {
	p, err := s.repo.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if p.OwnerID != ownerID {
		return false, nil
	}
	return !p.IsTeamMember || p.Status != person.StatusInactive, nil
}

func (s *PeopleService) checkSkills(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	skills, err := s.repo.ListSkills(ctx, owner)
	if err != nil {
		return translate(err, "check skills", resourceSkill, "")
	}
	known := make(map[uuid.UUID]struct{}, len(skills))
	for _, sk := range skills {
		known[sk.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return NewValidationError("skill_ids", fmt.Sprintf("unknown skill %s", id))
		}
	}
	return nil
}
