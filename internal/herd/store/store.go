package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/database"
	"github.com/MrJamesThe3rd/herdbook/internal/herd"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSpecies(ctx context.Context, sp *herd.Species) error {
	query := `
		INSERT INTO species (id, name, is_dairy, is_ruminant)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(ctx, query, sp.ID, sp.Name, sp.IsDairy, sp.IsRuminant); err != nil {
		if database.IsUniqueViolation(err) {
			return herd.ErrConflict
		}

		return fmt.Errorf("creating species: %w", err)
	}

	return nil
}

func (s *Store) ListSpecies(ctx context.Context) ([]*herd.Species, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_dairy, is_ruminant FROM species ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing species: %w", err)
	}
	defer rows.Close()

	var out []*herd.Species

	for rows.Next() {
		var sp herd.Species
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.IsDairy, &sp.IsRuminant); err != nil {
			return nil, fmt.Errorf("scanning species: %w", err)
		}

		out = append(out, &sp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating species: %w", err)
	}

	return out, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *herd.Group) error {
	query := `
		INSERT INTO groups (id, name, species_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	if err := s.db.QueryRowContext(ctx, query, g.ID, g.Name, g.SpeciesID).Scan(&g.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return herd.ErrConflict
		}

		return fmt.Errorf("creating group: %w", err)
	}

	return nil
}

func (s *Store) ListGroups(ctx context.Context, speciesID *string) ([]*herd.Group, error) {
	query := `SELECT id, name, species_id, created_at FROM groups`

	var args []any

	if speciesID != nil {
		query += " WHERE species_id = $1"

		args = append(args, *speciesID)
	}

	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var out []*herd.Group

	for rows.Next() {
		var g herd.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.SpeciesID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		out = append(out, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (*herd.Animal, error) {
	var (
		a         herd.Animal
		groupID   sql.NullString
		tag       sql.NullString
		sex       string
		status    string
		birthDate sql.NullTime
	)

	if err := s.Scan(&a.ID, &a.SpeciesID, &groupID, &tag, &sex, &birthDate, &status, &a.CreatedAt); err != nil {
		return nil, err
	}

	if groupID.Valid {
		a.GroupID = &groupID.String
	}

	if birthDate.Valid {
		a.BirthDate = &birthDate.Time
	}

	a.Tag = tag.String
	a.Sex = herd.Sex(sex)
	a.Status = herd.Status(status)

	return &a, nil
}

const selectAnimalColumns = `id, species_id, group_id, tag, sex, birth_date, status, created_at`

func (s *Store) CreateAnimal(ctx context.Context, a *herd.Animal) error {
	query := `
		INSERT INTO animals (species_id, group_id, tag, sex, birth_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.SpeciesID,
		a.GroupID,
		a.Tag,
		a.Sex,
		a.BirthDate,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return herd.ErrConflict
		}

		return fmt.Errorf("creating animal: %w", err)
	}

	return nil
}

func (s *Store) GetAnimal(ctx context.Context, id uuid.UUID) (*herd.Animal, error) {
	query := `SELECT ` + selectAnimalColumns + ` FROM animals WHERE id = $1`

	a, err := scanAnimal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, herd.ErrNotFound
		}

		return nil, fmt.Errorf("getting animal: %w", err)
	}

	return a, nil
}

func (s *Store) ListAnimals(ctx context.Context, filter herd.AnimalFilter) ([]*herd.Animal, error) {
	query := `SELECT ` + selectAnimalColumns + ` FROM animals WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.SpeciesID != nil {
		query += fmt.Sprintf(" AND species_id = $%d", argIdx)

		args = append(args, *filter.SpeciesID)
		argIdx++
	}

	if filter.GroupID != nil {
		query += fmt.Sprintf(" AND group_id = $%d", argIdx)

		args = append(args, *filter.GroupID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing animals: %w", err)
	}
	defer rows.Close()

	var out []*herd.Animal

	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning animal: %w", err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating animals: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status herd.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE animals SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return herd.ErrNotFound
	}

	return nil
}
