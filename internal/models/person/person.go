package person

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	OwnerID      uuid.UUID    `json:"owner_id" db:"owner_id"`
	Name         string       `json:"name" db:"name"`
	Email        string       `json:"email,omitempty" db:"email"`
	IsTeamMember bool         `json:"is_team_member" db:"is_team_member"`
	Status       MemberStatus `json:"status,omitempty" db:"status"`
	SkillIDs     []uuid.UUID  `json:"skill_ids,omitempty" db:"skill_ids"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}

type MemberStatus string

const (
	StatusActive   MemberStatus = "ativo"
	StatusInactive MemberStatus = "inativo"
)

func (s MemberStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Skill struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
