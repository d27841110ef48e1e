package analytics

import (
	"errors"
)

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrGroupNotFound = errors.New("group not found")
)

// KPIs is the dashboard summary for a filtered slice of the farm records.
type KPIs struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpense  float64 `json:"totalExpense"`
	GrossMargin   float64 `json:"grossMargin"`
	TotalAnimals  int64   `json:"totalAnimals"`
	ADG           float64 `json:"adg"`       // average daily gain, not yet computed
	Mortality     float64 `json:"mortality"` // mortality rate, not yet computed
	AvgLitterSize float64 `json:"avgLitterSize"`
	TotalEggs     float64 `json:"totalEggs"`
	TotalMilk     float64 `json:"totalMilk"`
}

// MonthBucket is one point of the monthly revenue/expense series. Name is YYYY-MM.
type MonthBucket struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
}

type CategoryLine struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ProfitAndLoss breaks income and expense totals down by category.
type ProfitAndLoss struct {
	Income       []CategoryLine `json:"income"`
	Expenses     []CategoryLine `json:"expenses"`
	TotalIncome  float64        `json:"totalIncome"`
	TotalExpense float64        `json:"totalExpense"`
	NetProfit    float64        `json:"netProfit"`
}

type CohortGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SpeciesID   string `json:"speciesId,omitempty"`
	SpeciesName string `json:"speciesName,omitempty"`
}

type ProductionTotals struct {
	TotalEggs     float64 `json:"totalEggs"`
	TotalMilk     float64 `json:"totalMilk"`
	AvgLitterSize float64 `json:"avgLitterSize"`
}

type FinancialTotals struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalExpense float64 `json:"totalExpense"`
	GrossMargin  float64 `json:"grossMargin"`
}

type EventKind string

const (
	EventProduction EventKind = "production"
	EventFinancial  EventKind = "financial"
)

// TimelineEvent is a production record or a financial transaction placed on
// the cohort's timeline. Type is the event type or the transaction type.
type TimelineEvent struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Kind        EventKind `json:"kind"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	Description string    `json:"description,omitempty"`
}

// CohortReport summarises a single group of animals.
type CohortReport struct {
	Group      CohortGroup      `json:"group"`
	HeadCount  map[string]int64 `json:"headCount"`
	Production ProductionTotals `json:"production"`
	Financial  FinancialTotals  `json:"financial"`
	Timeline   []TimelineEvent  `json:"timeline"`
}
