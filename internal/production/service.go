package production

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=production
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	ListRecords(ctx context.Context, filter ListFilter) ([]*Record, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	SpeciesID  *string
	GroupID    *string
	AnimalID   *uuid.UUID
	EventType  EventType
	Date       time.Time
	Quantity   *decimal.Decimal
	Weight     *decimal.Decimal
	EggCount   *int64
	MilkVolume *decimal.Decimal
	Notes      string
}

type ListFilter struct {
	SpeciesID *string
	GroupID   *string
	AnimalID  *uuid.UUID
	EventType *EventType
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	r := &Record{
		SpeciesID:  params.SpeciesID,
		GroupID:    params.GroupID,
		AnimalID:   params.AnimalID,
		EventType:  EventType(strings.ToLower(string(params.EventType))),
		Date:       params.Date,
		Quantity:   params.Quantity,
		Weight:     params.Weight,
		EggCount:   params.EggCount,
		MilkVolume: params.MilkVolume,
		Notes:      strings.TrimSpace(params.Notes),
	}

	if err := Validate(r); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListRecords(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRecord(ctx, id)
}
