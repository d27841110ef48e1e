package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

// TransactionLister is satisfied by *finance.Service.
type TransactionLister interface {
	List(ctx context.Context, filter finance.ListFilter) ([]*finance.Transaction, error)
}

// RecordLister is satisfied by *production.Service.
type RecordLister interface {
	List(ctx context.Context, filter production.ListFilter) ([]*production.Record, error)
}

var (
	transactionHeader = []string{
		"id", "date", "type", "category", "description", "raw_description",
		"amount", "currency", "base_amount", "species_id", "group_id",
	}
	productionHeader = []string{
		"id", "date", "event_type", "species_id", "group_id", "animal_id",
		"quantity", "weight", "egg_count", "milk_volume", "notes",
	}
)

// Service writes ledger and production records as CSV files.
type Service struct {
	transactions TransactionLister
	records      RecordLister
}

func NewService(transactions TransactionLister, records RecordLister) *Service {
	return &Service{
		transactions: transactions,
		records:      records,
	}
}

// Transactions writes every transaction matching filter to w and returns how
// many rows were written.
func (s *Service) Transactions(ctx context.Context, filter finance.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := WriteTransactions(w, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// Production writes every production record matching filter to w.
func (s *Service) Production(ctx context.Context, filter production.ListFilter, w io.Writer) (int, error) {
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing production records: %w", err)
	}

	if err := WriteProduction(w, records); err != nil {
		return 0, err
	}

	return len(records), nil
}

func WriteTransactions(w io.Writer, txs []*finance.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		category := ""
		if tx.Category != nil {
			category = tx.Category.Name
		}

		row := []string{
			tx.ID.String(),
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			category,
			tx.Description,
			tx.RawDescription,
			tx.Amount.StringFixed(2),
			tx.Currency,
			tx.BaseAmount.StringFixed(2),
			deref(tx.SpeciesID),
			deref(tx.GroupID),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func WriteProduction(w io.Writer, records []*production.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(productionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		animal := ""
		if r.AnimalID != nil {
			animal = r.AnimalID.String()
		}

		eggs := ""
		if r.EggCount != nil {
			eggs = strconv.FormatInt(*r.EggCount, 10)
		}

		row := []string{
			r.ID.String(),
			r.Date.Format(time.DateOnly),
			string(r.EventType),
			deref(r.SpeciesID),
			deref(r.GroupID),
			animal,
			measure(r.Quantity),
			measure(r.Weight),
			eggs,
			measure(r.MilkVolume),
			r.Notes,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing production record %s: %w", r.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Filename builds a download name such as "herdbook_transactions_20260131.csv".
// Anything outside [a-zA-Z0-9-_] in kind is replaced by an underscore.
func Filename(kind string, at time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, kind)

	return fmt.Sprintf("herdbook_%s_%s.csv", safe, at.Format("20060102"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func measure(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}

	return d.String()
}
