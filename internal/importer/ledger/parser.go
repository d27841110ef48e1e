package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/herdbook/internal/encoding"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

var ErrUnknownFormat = errors.New("no matching ledger format found: expected date, description and amount (or debit and credit) columns")

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006", "2006/01/02"}

// Parser reads ledger CSV files (spreadsheet exports or bank statements)
// and produces transaction params. The separator, the header row and the
// amount layout are detected from the content.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]finance.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, sep := range []rune{';', ','} {
		rows, err := readCSV(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("parsing ledger csv", "charset", charset, "separator", string(sep), "profile", profile.Name)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readCSV(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := indexHeader(row)

		for i := range profiles {
			if cols.has(profiles[i].required()...) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]finance.CreateParams, error) {
	var out []finance.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, cols.get(fieldDate)))
		if !ok {
			continue
		}

		desc := cellValue(row, cols.get(fieldDesc))
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		params, ok, err := rowAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		params.Description = desc
		params.RawDescription = desc
		params.Date = date
		params.Currency = strings.ToUpper(cellValue(row, cols.get(fieldCurrency)))

		if s := cellValue(row, cols.get(fieldSpecies)); s != "" {
			params.SpeciesID = &s
		}

		if g := cellValue(row, cols.get(fieldGroup)); g != "" {
			params.GroupID = &g
		}

		out = append(out, params)
	}

	return out, nil
}

// parseDate returns false for empty cells or values that are not dates
// (footer rows, page markers).
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount fills the amount and type of a row. Rows with no amount or a
// zero amount are skipped; amounts that cannot be read are errors.
func rowAmount(p *Profile, cols colIndex, row []string) (finance.CreateParams, bool, error) {
	if p.AmountMode == amountSplit {
		return parseSplit(row, cols.get(fieldDebit), cols.get(fieldCredit))
	}

	s := cellValue(row, cols.get(fieldAmount))
	if s == "" {
		return finance.CreateParams{}, false, nil
	}

	amount, err := parseAmount(s)
	if err != nil {
		return finance.CreateParams{}, false, fmt.Errorf("amount %q: %w", s, err)
	}

	if amount.IsZero() {
		return finance.CreateParams{}, false, nil
	}

	typ := finance.TypeIncome
	if amount.IsNegative() {
		typ = finance.TypeExpense
	}

	return finance.CreateParams{Type: typ, Amount: amount.Abs()}, true, nil
}

func parseSplit(row []string, debitIdx, creditIdx int) (finance.CreateParams, bool, error) {
	for _, col := range []struct {
		idx int
		typ finance.Type
	}{
		{debitIdx, finance.TypeExpense},
		{creditIdx, finance.TypeIncome},
	} {
		s := cellValue(row, col.idx)
		if s == "" {
			continue
		}

		amount, err := parseAmount(s)
		if err != nil {
			return finance.CreateParams{}, false, fmt.Errorf("amount %q: %w", s, err)
		}

		if amount.IsZero() {
			continue
		}

		return finance.CreateParams{Type: col.typ, Amount: amount.Abs()}, true, nil
	}

	return finance.CreateParams{}, false, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
