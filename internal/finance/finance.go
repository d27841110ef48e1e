package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrNoRate             = errors.New("no exchange rate")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry. Amount is always positive; the
// direction is carried by Type. BaseAmount is Amount converted to the
// base currency when the transaction was written.
type Transaction struct {
	ID             uuid.UUID
	SpeciesID      *string
	GroupID        *string
	CategoryID     *uuid.UUID
	Category       *Category // Loaded via JOIN
	Type           Type
	Amount         decimal.Decimal
	Currency       string
	BaseAmount     decimal.Decimal
	Description    string
	RawDescription string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// Category groups transactions on the profit and loss statement.
type Category struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	CreatedAt time.Time
}

// FxRate is the value of one unit of Currency in the base currency, valid
// from AsOf until the next rate for the same currency.
type FxRate struct {
	Currency   string
	RateToBase decimal.Decimal
	AsOf       time.Time
}
