package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Row maps a column alias to its text value. NULL columns are left out.
type Row map[string]string

// Querier runs parameterized read queries and hands every column back as text.
// Numeric and decimal columns are not converted; callers parse what they need.
type Querier struct {
	db *sql.DB
}

func NewQuerier(db *sql.DB) *Querier {
	return &Querier{db: db}
}

func (q *Querier) Query(ctx context.Context, query string, args []any) ([]Row, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

// textRows is satisfied by *sql.Rows.
type textRows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collect(rows textRows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out []Row

	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))

		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(cols))

		for i, col := range cols {
			if values[i].Valid {
				row[col] = values[i].String
			}
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return out, nil
}
