package herd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=herd
type Repository interface {
	CreateSpecies(ctx context.Context, s *Species) error
	ListSpecies(ctx context.Context) ([]*Species, error)

	CreateGroup(ctx context.Context, g *Group) error
	ListGroups(ctx context.Context, speciesID *string) ([]*Group, error)

	CreateAnimal(ctx context.Context, a *Animal) error
	GetAnimal(ctx context.Context, id uuid.UUID) (*Animal, error)
	ListAnimals(ctx context.Context, filter AnimalFilter) ([]*Animal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AnimalFilter struct {
	SpeciesID *string
	GroupID   *string
	Status    *Status
}

type CreateAnimalParams struct {
	SpeciesID string
	GroupID   *string
	Tag       string
	Sex       Sex
	BirthDate *time.Time
}

// Slug turns a display name into an id: "Dairy Goats" becomes "dairy-goats".
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (s *Service) CreateSpecies(ctx context.Context, sp Species) (*Species, error) {
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return nil, fmt.Errorf("%w: species name is required", ErrInvalid)
	}

	if sp.ID == "" {
		sp.ID = Slug(sp.Name)
	}

	if err := s.repo.CreateSpecies(ctx, &sp); err != nil {
		return nil, err
	}

	return &sp, nil
}

func (s *Service) ListSpecies(ctx context.Context) ([]*Species, error) {
	return s.repo.ListSpecies(ctx)
}

func (s *Service) CreateGroup(ctx context.Context, g Group) (*Group, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" || g.SpeciesID == "" {
		return nil, fmt.Errorf("%w: group needs a name and a species", ErrInvalid)
	}

	if g.ID == "" {
		g.ID = Slug(g.Name)
	}

	if err := s.repo.CreateGroup(ctx, &g); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Service) ListGroups(ctx context.Context, speciesID *string) ([]*Group, error) {
	return s.repo.ListGroups(ctx, speciesID)
}

// CreateAnimal registers a new, active animal.
func (s *Service) CreateAnimal(ctx context.Context, params CreateAnimalParams) (*Animal, error) {
	if params.SpeciesID == "" {
		return nil, fmt.Errorf("%w: species is required", ErrInvalid)
	}

	sex := params.Sex
	if sex == "" {
		sex = SexUnknown
	}

	a := &Animal{
		SpeciesID: params.SpeciesID,
		GroupID:   params.GroupID,
		Tag:       strings.TrimSpace(params.Tag),
		Sex:       sex,
		BirthDate: params.BirthDate,
		Status:    StatusActive,
	}

	if err := s.repo.CreateAnimal(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) GetAnimal(ctx context.Context, id uuid.UUID) (*Animal, error) {
	return s.repo.GetAnimal(ctx, id)
}

func (s *Service) ListAnimals(ctx context.Context, filter AnimalFilter) ([]*Animal, error) {
	return s.repo.ListAnimals(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalid, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
