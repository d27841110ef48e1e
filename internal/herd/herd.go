package herd

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid herd record")
)

// Status is the lifecycle state of an animal.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
	StatusDead   Status = "dead"
	StatusCulled Status = "culled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusDead, StatusCulled:
		return true
	}

	return false
}

type Sex string

const (
	SexFemale  Sex = "female"
	SexMale    Sex = "male"
	SexUnknown Sex = "unknown"
)

// Species ids are short slugs ("cattle", "poultry") picked by the farmer.
type Species struct {
	ID         string
	Name       string
	IsDairy    bool
	IsRuminant bool
}

// Group is a cohort of animals of one species managed together.
type Group struct {
	ID        string
	Name      string
	SpeciesID string
	CreatedAt time.Time
}

type Animal struct {
	ID        uuid.UUID
	SpeciesID string
	GroupID   *string
	Tag       string
	Sex       Sex
	BirthDate *time.Time
	Status    Status
	CreatedAt time.Time
}
