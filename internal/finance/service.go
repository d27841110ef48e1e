package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=finance
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)

	UpsertRate(ctx context.Context, rate *FxRate) error
	RateAt(ctx context.Context, currency string, date time.Time) (*FxRate, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	// FindDuplicates returns the stored transactions, within the range the
	// import was begun with, that share date, amount, type and raw
	// description with one of txs.
	FindDuplicates(ctx context.Context, txs []*Transaction) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo         Repository
	baseCurrency string
}

func NewService(repo Repository, baseCurrency string) *Service {
	return &Service{repo: repo, baseCurrency: strings.ToUpper(baseCurrency)}
}

func (s *Service) BaseCurrency() string {
	return s.baseCurrency
}

type CreateParams struct {
	SpeciesID      *string
	GroupID        *string
	CategoryID     *uuid.UUID
	Type           Type
	Amount         decimal.Decimal
	Currency       string
	Description    string
	RawDescription string
	Date           time.Time
}

type ListFilter struct {
	Type       *Type
	SpeciesID  *string
	GroupID    *string
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := s.newTransaction(ctx, params, nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Update writes tx back, recomputing its base amount.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if err := validate(tx.Type, tx.Amount); err != nil {
		return err
	}

	tx.Currency = s.currency(tx.Currency)

	base, err := s.baseAmount(ctx, tx.Amount, tx.Currency, tx.Date, nil)
	if err != nil {
		return err
	}

	tx.BaseAmount = base

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, name string, typ Type) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || !typ.Valid() {
		return nil, fmt.Errorf("%w: category needs a name and a type", ErrInvalidTransaction)
	}

	c := &Category{Name: name, Type: typ}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) SetRate(ctx context.Context, currency string, rate decimal.Decimal, asOf time.Time) (*FxRate, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidTransaction)
	}

	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", ErrInvalidTransaction)
	}

	r := &FxRate{Currency: currency, RateToBase: rate, AsOf: asOf}
	if err := s.repo.UpsertRate(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// RateAt returns the rate in force for currency on date. The base currency
// always converts at 1.
func (s *Service) RateAt(ctx context.Context, currency string, date time.Time) (*FxRate, error) {
	currency = s.currency(currency)
	if currency == s.baseCurrency {
		return &FxRate{Currency: currency, RateToBase: decimal.NewFromInt(1), AsOf: date}, nil
	}

	rate, err := s.repo.RateAt(ctx, currency, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w for %s on %s", ErrNoRate, currency, date.Format(time.DateOnly))
		}

		return nil, err
	}

	return rate, nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date           string
	Amount         string
	Type           Type
	RawDescription string
}

func keyOf(date time.Time, amount decimal.Decimal, typ Type, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		Type:           typ,
		RawDescription: raw,
	}
}

// ImportBatch imports params unless any of them already exists. When
// duplicates are found nothing is written and the split between new and
// conflicting rows is returned for the caller to confirm.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	txs, err := s.newTransactions(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.RawDescription)] = d
	}

	var (
		newParams []CreateParams
		conflicts []Conflict
	)

	for i, p := range params {
		tx := txs[i]

		existing, found := lookup[keyOf(tx.Date, tx.Amount, tx.Type, tx.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch imports params without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs, err := s.newTransactions(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func validate(typ Type, amount decimal.Decimal) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, typ)
	}

	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}

	return nil
}

func (s *Service) currency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return s.baseCurrency
	}

	return c
}

type rateKey struct {
	currency string
	date     string
}

// baseAmount converts amount into the base currency, rounded to cents.
// cache may be nil.
func (s *Service) baseAmount(ctx context.Context, amount decimal.Decimal, currency string, date time.Time, cache map[rateKey]decimal.Decimal) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return amount, nil
	}

	k := rateKey{currency: currency, date: date.Format(time.DateOnly)}
	if rate, ok := cache[k]; ok {
		return amount.Mul(rate).Round(2), nil
	}

	rate, err := s.RateAt(ctx, currency, date)
	if err != nil {
		return decimal.Zero, err
	}

	if cache != nil {
		cache[k] = rate.RateToBase
	}

	return amount.Mul(rate.RateToBase).Round(2), nil
}

func (s *Service) newTransaction(ctx context.Context, p CreateParams, cache map[rateKey]decimal.Decimal) (*Transaction, error) {
	if err := validate(p.Type, p.Amount); err != nil {
		return nil, err
	}

	currency := s.currency(p.Currency)

	base, err := s.baseAmount(ctx, p.Amount, currency, p.Date, cache)
	if err != nil {
		return nil, err
	}

	raw := p.RawDescription
	if raw == "" {
		raw = p.Description
	}

	return &Transaction{
		SpeciesID:      p.SpeciesID,
		GroupID:        p.GroupID,
		CategoryID:     p.CategoryID,
		Type:           p.Type,
		Amount:         p.Amount,
		Currency:       currency,
		BaseAmount:     base,
		Description:    p.Description,
		RawDescription: raw,
		Date:           p.Date,
	}, nil
}

func (s *Service) newTransactions(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	cache := make(map[rateKey]decimal.Decimal)
	txs := make([]*Transaction, len(params))

	for i, p := range params {
		tx, err := s.newTransaction(ctx, p, cache)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs[i] = tx
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}
