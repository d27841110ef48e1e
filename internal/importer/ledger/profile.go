package ledger

import "strings"

type field int

const (
	fieldDate field = iota
	fieldDesc
	fieldAmount
	fieldDebit
	fieldCredit
	fieldCurrency
	fieldSpecies
	fieldGroup
)

// headers maps lower-cased header cells to the field they carry. Portuguese
// names cover the bank statement exports most of our farmers start from.
var headers = map[string]field{
	"date":        fieldDate,
	"data":        fieldDate,
	"data mov.":   fieldDate,
	"description": fieldDesc,
	"descrição":   fieldDesc,
	"memo":        fieldDesc,
	"amount":      fieldAmount,
	"montante":    fieldAmount,
	"movimento":   fieldAmount,
	"debit":       fieldDebit,
	"débito":      fieldDebit,
	"credit":      fieldCredit,
	"crédito":     fieldCredit,
	"currency":    fieldCurrency,
	"moeda":       fieldCurrency,
	"species":     fieldSpecies,
	"group":       fieldGroup,
}

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column, negative for expenses.
	amountSigned amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes a column layout the parser accepts.
type Profile struct {
	Name       string
	AmountMode amountMode
}

func (p Profile) required() []field {
	if p.AmountMode == amountSplit {
		return []field{fieldDate, fieldDesc, fieldDebit, fieldCredit}
	}

	return []field{fieldDate, fieldDesc, fieldAmount}
}

// profiles are tried in order; the split layout goes first because a
// statement may carry both a balance-like amount column and debit/credit.
var profiles = []Profile{
	{Name: "debit-credit", AmountMode: amountSplit},
	{Name: "signed", AmountMode: amountSigned},
}

// colIndex maps fields to their index in a row.
type colIndex map[field]int

func indexHeader(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		f, ok := headers[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}

		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}

	return cols
}

func (c colIndex) has(fields ...field) bool {
	for _, f := range fields {
		if _, ok := c[f]; !ok {
			return false
		}
	}

	return true
}

// get returns the column for f, or -1.
func (c colIndex) get(f field) int {
	if i, ok := c[f]; ok {
		return i
	}

	return -1
}
