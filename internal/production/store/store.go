package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRecord(ctx context.Context, r *production.Record) error {
	query := `
		INSERT INTO production_records (
			species_id, group_id, animal_id, event_type, date,
			quantity, weight, egg_count, milk_volume, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.SpeciesID,
		r.GroupID,
		r.AnimalID,
		r.EventType,
		r.Date,
		nullDecimal(r.Quantity),
		nullDecimal(r.Weight),
		r.EggCount,
		nullDecimal(r.MilkVolume),
		r.Notes,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating production record: %w", err)
	}

	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func (s *Store) ListRecords(ctx context.Context, filter production.ListFilter) ([]*production.Record, error) {
	query := `
		SELECT id, species_id, group_id, animal_id, event_type, date,
			quantity, weight, egg_count, milk_volume, notes, created_at
		FROM production_records
		WHERE 1=1`

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

	if filter.AnimalID != nil {
		query += fmt.Sprintf(" AND animal_id = $%d", argIdx)

		args = append(args, *filter.AnimalID)
		argIdx++
	}

	if filter.EventType != nil {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)

		args = append(args, *filter.EventType)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing production records: %w", err)
	}
	defer rows.Close()

	var out []*production.Record

	for rows.Next() {
		var (
			r                            production.Record
			speciesID, groupID, notes    sql.NullString
			eventType                    string
			quantity, weight, milkVolume decimal.NullDecimal
			eggCount                     sql.NullInt64
		)

		if err := rows.Scan(
			&r.ID, &speciesID, &groupID, &r.AnimalID, &eventType, &r.Date,
			&quantity, &weight, &eggCount, &milkVolume, &notes, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning production record: %w", err)
		}

		if speciesID.Valid {
			r.SpeciesID = &speciesID.String
		}

		if groupID.Valid {
			r.GroupID = &groupID.String
		}

		if eggCount.Valid {
			r.EggCount = &eggCount.Int64
		}

		r.EventType = production.EventType(eventType)
		r.Quantity = fromNull(quantity)
		r.Weight = fromNull(weight)
		r.MilkVolume = fromNull(milkVolume)
		r.Notes = notes.String

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating production records: %w", err)
	}

	return out, nil
}

func (s *Store) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM production_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting production record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return production.ErrNotFound
	}

	return nil
}
