package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	cols []string
	data [][]sql.NullString
	pos  int
	err  error
}

func (f *fakeRows) Columns() ([]string, error) { return f.cols, nil }

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}

	f.pos++

	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*sql.NullString)) = f.data[f.pos-1][i]
	}

	return nil
}

func (f *fakeRows) Err() error { return f.err }

func TestCollect(t *testing.T) {
	rows := &fakeRows{
		cols: []string{"month", "revenue", "expense"},
		data: [][]sql.NullString{
			{{String: "2025-01", Valid: true}, {String: "1250.50", Valid: true}, {String: "300.00", Valid: true}},
			{{String: "2025-02", Valid: true}, {}, {String: "12", Valid: true}},
		},
	}

	got, err := collect(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Row{"month": "2025-01", "revenue": "1250.50", "expense": "300.00"}, got[0])

	_, present := got[1]["revenue"]
	assert.False(t, present, "NULL columns must be absent")
	assert.Equal(t, "12", got[1]["expense"])
}

func TestCollect_IterationError(t *testing.T) {
	rows := &fakeRows{cols: []string{"n"}, err: errors.New("connection reset")}

	_, err := collect(rows)
	assert.ErrorContains(t, err, "connection reset")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "42601"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	wrapped := fmt.Errorf("creating mapping: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsForeignKeyViolation(wrapped))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}
