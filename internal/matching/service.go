package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindCategory(ctx context.Context, rawDescription string) (*uuid.UUID, error)
	CreateMapping(ctx context.Context, rawPattern string, categoryID uuid.UUID) error
	ListMappings(ctx context.Context) ([]*Mapping, error)
	DeleteMapping(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest learned pattern contained in
// rawDescription, ignoring case. It returns nil when nothing matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (*uuid.UUID, error) {
	rawDescription = strings.TrimSpace(rawDescription)
	if rawDescription == "" {
		return nil, nil
	}

	return s.repo.FindCategory(ctx, rawDescription)
}

// Learn remembers that descriptions containing rawPattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, rawPattern string, categoryID uuid.UUID) error {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" {
		return ErrEmptyPattern
	}

	return s.repo.CreateMapping(ctx, rawPattern, categoryID)
}

func (s *Service) List(ctx context.Context) ([]*Mapping, error) {
	return s.repo.ListMappings(ctx)
}

func (s *Service) Forget(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMapping(ctx, id)
}
