package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/database"
)

// decimalCol parses a numeric column that arrived as text. A missing column
// (NULL) counts as zero; anything unparsable is an error.
func decimalCol(row database.Row, col string) (decimal.Decimal, error) {
	v, ok := row[col]
	if !ok || v == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: parsing %q: %w", col, v, err)
	}

	return d, nil
}

func floatCol(row database.Row, col string) (float64, error) {
	d, err := decimalCol(row, col)
	if err != nil {
		return 0, err
	}

	return d.InexactFloat64(), nil
}

func intCol(row database.Row, col string) (int64, error) {
	d, err := decimalCol(row, col)
	if err != nil {
		return 0, err
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("column %s: %s is not an integer", col, d)
	}

	return d.IntPart(), nil
}

// single returns the only row of an aggregate query. Aggregates without
// GROUP BY always produce one row; an empty result is treated as all zeros.
func single(rows []database.Row) database.Row {
	if len(rows) == 0 {
		return database.Row{}
	}

	return rows[0]
}

type financialRow struct {
	revenue decimal.Decimal
	expense decimal.Decimal
}

func shapeFinancial(row database.Row) (financialRow, error) {
	revenue, err := decimalCol(row, "total_revenue")
	if err != nil {
		return financialRow{}, err
	}

	expense, err := decimalCol(row, "total_expense")
	if err != nil {
		return financialRow{}, err
	}

	return financialRow{revenue: revenue, expense: expense}, nil
}

func (f financialRow) totals() FinancialTotals {
	return FinancialTotals{
		TotalRevenue: f.revenue.InexactFloat64(),
		TotalExpense: f.expense.InexactFloat64(),
		GrossMargin:  f.revenue.Sub(f.expense).InexactFloat64(),
	}
}

func shapeProduction(row database.Row) (ProductionTotals, error) {
	var (
		p   ProductionTotals
		err error
	)

	if p.TotalEggs, err = floatCol(row, "total_eggs"); err != nil {
		return ProductionTotals{}, err
	}

	if p.TotalMilk, err = floatCol(row, "total_milk"); err != nil {
		return ProductionTotals{}, err
	}

	if p.AvgLitterSize, err = floatCol(row, "avg_litter_size"); err != nil {
		return ProductionTotals{}, err
	}

	return p, nil
}

func shapeSeries(rows []database.Row) ([]MonthBucket, error) {
	buckets := make([]MonthBucket, 0, len(rows))

	for _, row := range rows {
		revenue, err := floatCol(row, "revenue")
		if err != nil {
			return nil, err
		}

		expense, err := floatCol(row, "expense")
		if err != nil {
			return nil, err
		}

		buckets = append(buckets, MonthBucket{
			Name:    row["month"],
			Revenue: revenue,
			Expense: expense,
		})
	}

	return buckets, nil
}

const uncategorised = "Uncategorised"

func shapeProfitAndLoss(rows []database.Row) (*ProfitAndLoss, error) {
	pl := &ProfitAndLoss{
		Income:   []CategoryLine{},
		Expenses: []CategoryLine{},
	}

	income, expense := decimal.Zero, decimal.Zero

	for _, row := range rows {
		amount, err := decimalCol(row, "total")
		if err != nil {
			return nil, err
		}

		name := row["category"]
		if name == "" {
			name = uncategorised
		}

		line := CategoryLine{Category: name, Amount: amount.InexactFloat64()}

		switch row["type"] {
		case "income":
			pl.Income = append(pl.Income, line)
			income = income.Add(amount)
		case "expense":
			pl.Expenses = append(pl.Expenses, line)
			expense = expense.Add(amount)
		default:
			return nil, fmt.Errorf("unexpected transaction type %q", row["type"])
		}
	}

	pl.TotalIncome = income.InexactFloat64()
	pl.TotalExpense = expense.InexactFloat64()
	pl.NetProfit = income.Sub(expense).InexactFloat64()

	return pl, nil
}

func shapeHeadCount(rows []database.Row) (map[string]int64, error) {
	counts := map[string]int64{"total": 0}

	for _, row := range rows {
		n, err := intCol(row, "n")
		if err != nil {
			return nil, err
		}

		counts[row["status"]] = n
		counts["total"] += n
	}

	return counts, nil
}

func shapeEvents(rows []database.Row, kind EventKind) ([]TimelineEvent, error) {
	events := make([]TimelineEvent, 0, len(rows))

	for _, row := range rows {
		value, err := floatCol(row, "value")
		if err != nil {
			return nil, err
		}

		events = append(events, TimelineEvent{
			ID:          row["id"],
			Date:        row["date"],
			Kind:        kind,
			Type:        row["type"],
			Value:       value,
			Description: row["description"],
		})
	}

	return events, nil
}
