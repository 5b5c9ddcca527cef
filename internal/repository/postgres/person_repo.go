package postgres

import (
	"context"
	"errors"
	"fmt"

	"organizese/internal/logger"
	"organizese/internal/models/person"
	repo "organizese/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const personColumns = `id, owner_id, name, email, is_team_member, status, skill_ids, created_at, updated_at`

func scanPerson(row scanner) (*person.Person, error) {
	p := &person.Person{}
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Email,
		&p.IsTeamMember,
		&p.Status,
		&p.SkillIDs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) CreatePerson(ctx context.Context, p *person.Person) error {
	query := `INSERT INTO people (id, owner_id, name, email, is_team_member, status, skill_ids)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Email, p.IsTeamMember, p.Status, nonNil(p.SkillIDs),
	).Scan(&p.CreatedAt)
	if err != nil {
		logger.Error("Repository: failed to insert person", err)
		return fmt.Errorf("inserting person: %w", err)
	}
	return nil
}

func (s *Storage) UpdatePerson(ctx context.Context, p *person.Person) error {
	query := `UPDATE people
				SET name = $1, email = $2, is_team_member = $3, status = $4, skill_ids = $5, updated_at = NOW()
				WHERE id = $6
				RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		p.Name, p.Email, p.IsTeamMember, p.Status, nonNil(p.SkillIDs), p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update person", err)
		return fmt.Errorf("updating person: %w", err)
	}
	return nil
}

func (s *Storage) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	p, err := scanPerson(s.pool.QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("getting person: %w", err)
	}
	return p, nil
}

func (s *Storage) ListPeople(ctx context.Context, ownerID uuid.UUID) ([]*person.Person, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+personColumns+` FROM people WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	defer rows.Close()

	people := []*person.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Storage) CreateSkill(ctx context.Context, sk *person.Skill) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO skills (id, owner_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
		sk.ID, sk.OwnerID, sk.Name,
	).Scan(&sk.CreatedAt)
	if err != nil {
		logger.Error("Repository: failed to insert skill", err)
		return fmt.Errorf("inserting skill: %w", err)
	}
	return nil
}

func (s *Storage) ListSkills(ctx context.Context, ownerID uuid.UUID) ([]*person.Skill, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, owner_id, name, created_at FROM skills WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer rows.Close()

	skills := []*person.Skill{}
	for rows.Next() {
		sk := &person.Skill{}
		if err := rows.Scan(&sk.ID, &sk.OwnerID, &sk.Name, &sk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}
