package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/database"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a row selected with selectTransactionColumns.
func scanTransaction(s scanner) (*finance.Transaction, error) {
	var (
		tx                    finance.Transaction
		typeStr               string
		speciesID, groupID    sql.NullString
		rawDesc               sql.NullString
		categoryID            *uuid.UUID
		categoryName, catType sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &speciesID, &groupID, &categoryID, &categoryName, &catType,
		&typeStr, &tx.Amount, &tx.Currency, &tx.BaseAmount,
		&tx.Description, &rawDesc, &tx.Date,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = finance.Type(typeStr)
	tx.RawDescription = rawDesc.String
	tx.CategoryID = categoryID

	if speciesID.Valid {
		tx.SpeciesID = &speciesID.String
	}

	if groupID.Valid {
		tx.GroupID = &groupID.String
	}

	if categoryID != nil && categoryName.Valid {
		tx.Category = &finance.Category{
			ID:   *categoryID,
			Name: categoryName.String,
			Type: finance.Type(catType.String),
		}
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.species_id, t.group_id, t.category_id, c.name AS category_name, c.type AS category_type,
	t.type, t.amount, t.currency, t.base_amount_cached,
	t.description, t.raw_description, t.date,
	t.created_at, t.updated_at, t.deleted_at
`

const fromTransactions = `
	FROM financial_transactions t
	LEFT JOIN categories c ON t.category_id = c.id`

const insertTransaction = `
	INSERT INTO financial_transactions (
		species_id, group_id, category_id, type, amount, currency, base_amount_cached,
		description, raw_description, date, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, db queryRower, tx *finance.Transaction) error {
	err := db.QueryRowContext(ctx, insertTransaction,
		tx.SpeciesID,
		tx.GroupID,
		tx.CategoryID,
		tx.Type,
		tx.Amount,
		tx.Currency,
		tx.BaseAmount,
		tx.Description,
		tx.RawDescription,
		tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *finance.Transaction) error {
	return insert(ctx, s.db, tx)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, finance.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter finance.ListFilter) ([]*finance.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.SpeciesID != nil {
		query += fmt.Sprintf(" AND t.species_id = $%d", argIdx)

		args = append(args, *filter.SpeciesID)
		argIdx++
	}

	if filter.GroupID != nil {
		query += fmt.Sprintf(" AND t.group_id = $%d", argIdx)

		args = append(args, *filter.GroupID)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*finance.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *finance.Transaction) error {
	query := `
		UPDATE financial_transactions
		SET species_id = $1, group_id = $2, category_id = $3, type = $4, amount = $5,
			currency = $6, base_amount_cached = $7, description = $8, date = $9, updated_at = NOW()
		WHERE id = $10 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.SpeciesID,
		tx.GroupID,
		tx.CategoryID,
		tx.Type,
		tx.Amount,
		tx.Currency,
		tx.BaseAmount,
		tx.Description,
		tx.Date,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE financial_transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return finance.ErrNotFound
	}

	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *finance.Category) error {
	query := `
		INSERT INTO categories (name, type, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.Type).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return finance.ErrConflict
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*finance.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, created_at FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*finance.Category

	for rows.Next() {
		var (
			c       finance.Category
			typeStr string
		)

		if err := rows.Scan(&c.ID, &c.Name, &typeStr, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = finance.Type(typeStr)
		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

func (s *Store) UpsertRate(ctx context.Context, rate *finance.FxRate) error {
	query := `
		INSERT INTO fx_rates (currency, rate_to_base, as_of)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency, as_of) DO UPDATE SET rate_to_base = EXCLUDED.rate_to_base
	`

	if _, err := s.db.ExecContext(ctx, query, rate.Currency, rate.RateToBase, rate.AsOf); err != nil {
		return fmt.Errorf("upserting rate: %w", err)
	}

	return nil
}

// RateAt returns the latest rate for currency dated on or before date.
func (s *Store) RateAt(ctx context.Context, currency string, date time.Time) (*finance.FxRate, error) {
	query := `
		SELECT currency, rate_to_base, as_of
		FROM fx_rates
		WHERE currency = $1 AND as_of <= $2
		ORDER BY as_of DESC
		LIMIT 1
	`

	var r finance.FxRate

	err := s.db.QueryRowContext(ctx, query, currency, date).Scan(&r.Currency, &r.RateToBase, &r.AsOf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, finance.ErrNotFound
		}

		return nil, fmt.Errorf("getting rate: %w", err)
	}

	return &r, nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx               *sql.Tx
	minDate, maxDate time.Time
}

// BeginImport opens a transaction holding an advisory lock for the date
// range, so two imports of the same statement serialise.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (finance.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, minDate: minDate, maxDate: maxDate}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, txs []*finance.Transaction) ([]*finance.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         string
		Type           finance.Type
		RawDescription string
	}

	keyOf := func(tx *finance.Transaction) lookupKey {
		return lookupKey{
			Date:           tx.Date.Format(time.DateOnly),
			Amount:         tx.Amount.StringFixed(2),
			Type:           tx.Type,
			RawDescription: tx.RawDescription,
		}
	}

	keySet := make(map[lookupKey]struct{}, len(txs))
	for _, tx := range txs {
		keySet[keyOf(tx)] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.deleted_at IS NULL AND t.date >= $1 AND t.date <= $2
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.minDate, itx.maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*finance.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		if _, found := keySet[keyOf(tx)]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*finance.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, itx.tx, tx); err != nil {
			return err
		}
	}

	return nil
}
