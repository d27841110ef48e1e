package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/database"
	"github.com/MrJamesThe3rd/herdbook/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindCategory picks the longest pattern contained in rawDescription; the
// newest mapping wins between patterns of equal length.
func (s *Store) FindCategory(ctx context.Context, rawDescription string) (*uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding category: %w", err)
	}

	return &id, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern string, categoryID uuid.UUID) error {
	query := `
		INSERT INTO category_mappings (raw_pattern, category_id, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, categoryID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return matching.ErrUnknownCategory
		}

		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context) ([]*matching.Mapping, error) {
	query := `
		SELECT m.id, m.raw_pattern, m.category_id, c.name, m.created_at
		FROM category_mappings m
		JOIN categories c ON c.id = m.category_id
		ORDER BY m.raw_pattern ASC, m.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var out []*matching.Mapping

	for rows.Next() {
		var m matching.Mapping
		if err := rows.Scan(&m.ID, &m.RawPattern, &m.CategoryID, &m.CategoryName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		out = append(out, &m)
	}

	return out, rows.Err()
}

func (s *Store) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM category_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return matching.ErrNotFound
	}

	return nil
}
