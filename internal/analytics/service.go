package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/herdbook/internal/database"
)

//go:generate mockgen -source=service.go -destination=querier_mock.go -package=analytics
type Querier interface {
	Query(ctx context.Context, query string, args []any) ([]database.Row, error)
}

const (
	financialSummarySQL = `
		SELECT
			COALESCE(SUM(base_amount_cached) FILTER (WHERE type = 'income'), 0) AS total_revenue,
			COALESCE(SUM(base_amount_cached) FILTER (WHERE type = 'expense'), 0) AS total_expense
		FROM financial_transactions
		WHERE %s AND deleted_at IS NULL`

	// activeAnimalsSQL ignores the species, group and date filters. The
	// dashboard has always shown the whole herd here even though the other
	// figures are filtered; keep it until the frontend decides otherwise.
	activeAnimalsSQL = `
		SELECT COUNT(*) AS total_animals
		FROM animals
		WHERE status = 'active'`

	productionSummarySQL = `
		SELECT
			COALESCE(SUM(egg_count) FILTER (WHERE event_type = 'egg_count'), 0) AS total_eggs,
			COALESCE(SUM(milk_volume) FILTER (WHERE event_type = 'milk_volume'), 0) AS total_milk,
			COALESCE(AVG(quantity) FILTER (WHERE event_type = 'birth'), 0) AS avg_litter_size
		FROM production_records
		WHERE %s`

	timeSeriesSQL = `
		SELECT
			TO_CHAR(date, 'YYYY-MM') AS month,
			COALESCE(SUM(base_amount_cached) FILTER (WHERE type = 'income'), 0) AS revenue,
			COALESCE(SUM(base_amount_cached) FILTER (WHERE type = 'expense'), 0) AS expense
		FROM financial_transactions
		WHERE %s AND deleted_at IS NULL
		GROUP BY month
		ORDER BY month ASC`

	profitAndLossSQL = `
		SELECT
			t.type AS type,
			COALESCE(c.name, '') AS category,
			COALESCE(SUM(t.base_amount_cached), 0) AS total
		FROM financial_transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE %s AND t.deleted_at IS NULL
		GROUP BY t.type, c.name
		ORDER BY t.type, total DESC, category ASC`

	cohortGroupSQL = `
		SELECT g.id, g.name, g.species_id, s.name AS species_name
		FROM groups g
		LEFT JOIN species s ON s.id = g.species_id
		WHERE g.id = $1`

	headCountSQL = `
		SELECT status, COUNT(*) AS n
		FROM animals
		WHERE group_id = $1
		GROUP BY status
		ORDER BY status`

	productionEventsSQL = `
		SELECT
			id,
			TO_CHAR(date, 'YYYY-MM-DD') AS date,
			event_type AS type,
			COALESCE(quantity, weight, egg_count, milk_volume, 0) AS value,
			notes AS description
		FROM production_records
		WHERE %s
		ORDER BY production_records.date ASC, created_at ASC`

	financialEventsSQL = `
		SELECT
			id,
			TO_CHAR(date, 'YYYY-MM-DD') AS date,
			type,
			base_amount_cached AS value,
			description
		FROM financial_transactions
		WHERE %s AND deleted_at IS NULL
		ORDER BY financial_transactions.date ASC, created_at ASC`
)

type Service struct {
	db Querier
}

func NewService(db Querier) *Service {
	return &Service{db: db}
}

// KPIs runs the financial, herd and production aggregates concurrently. The
// first failure cancels the others and no partial result is returned.
func (s *Service) KPIs(ctx context.Context, filter Filter) (*KPIs, error) {
	where, args := filter.Where()

	var (
		fin     financialRow
		animals int64
		prod    ProductionTotals
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		fin, err = s.financialSummary(gctx, where, args)

		return err
	})

	g.Go(func() error {
		rows, err := s.db.Query(gctx, activeAnimalsSQL, nil)
		if err != nil {
			return fmt.Errorf("querying active animals: %w", err)
		}

		animals, err = intCol(single(rows), "total_animals")

		return err
	})

	g.Go(func() error {
		var err error
		prod, err = s.productionSummary(gctx, where, args)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := fin.totals()

	return &KPIs{
		TotalRevenue:  totals.TotalRevenue,
		TotalExpense:  totals.TotalExpense,
		GrossMargin:   totals.GrossMargin,
		TotalAnimals:  animals,
		AvgLitterSize: prod.AvgLitterSize,
		TotalEggs:     prod.TotalEggs,
		TotalMilk:     prod.TotalMilk,
	}, nil
}

// TimeSeries returns monthly revenue and expense, oldest month first.
func (s *Service) TimeSeries(ctx context.Context, filter Filter) ([]MonthBucket, error) {
	where, args := filter.Where()

	rows, err := s.db.Query(ctx, fmt.Sprintf(timeSeriesSQL, where), args)
	if err != nil {
		return nil, fmt.Errorf("querying time series: %w", err)
	}

	buckets, err := shapeSeries(rows)
	if err != nil {
		return nil, fmt.Errorf("shaping time series: %w", err)
	}

	return buckets, nil
}

func (s *Service) ProfitAndLoss(ctx context.Context, filter Filter) (*ProfitAndLoss, error) {
	where, args := filter.Where()

	rows, err := s.db.Query(ctx, fmt.Sprintf(profitAndLossSQL, where), args)
	if err != nil {
		return nil, fmt.Errorf("querying profit and loss: %w", err)
	}

	pl, err := shapeProfitAndLoss(rows)
	if err != nil {
		return nil, fmt.Errorf("shaping profit and loss: %w", err)
	}

	return pl, nil
}

// Cohort builds the report for one group. The group in the filter is
// replaced by groupID.
func (s *Service) Cohort(ctx context.Context, groupID string, filter Filter) (*CohortReport, error) {
	rows, err := s.db.Query(ctx, cohortGroupSQL, []any{groupID})
	if err != nil {
		return nil, fmt.Errorf("querying group: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrGroupNotFound
	}

	report := &CohortReport{
		Group: CohortGroup{
			ID:          rows[0]["id"],
			Name:        rows[0]["name"],
			SpeciesID:   rows[0]["species_id"],
			SpeciesName: rows[0]["species_name"],
		},
	}

	filter.GroupID = &groupID
	where, args := filter.Where()

	rows, err = s.db.Query(ctx, headCountSQL, []any{groupID})
	if err != nil {
		return nil, fmt.Errorf("querying head count: %w", err)
	}

	if report.HeadCount, err = shapeHeadCount(rows); err != nil {
		return nil, fmt.Errorf("shaping head count: %w", err)
	}

	if report.Production, err = s.productionSummary(ctx, where, args); err != nil {
		return nil, err
	}

	fin, err := s.financialSummary(ctx, where, args)
	if err != nil {
		return nil, err
	}

	report.Financial = fin.totals()

	production, err := s.events(ctx, productionEventsSQL, where, args, EventProduction)
	if err != nil {
		return nil, err
	}

	financial, err := s.events(ctx, financialEventsSQL, where, args, EventFinancial)
	if err != nil {
		return nil, err
	}

	report.Timeline = mergeTimeline(production, financial)

	return report, nil
}

func (s *Service) financialSummary(ctx context.Context, where string, args []any) (financialRow, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(financialSummarySQL, where), args)
	if err != nil {
		return financialRow{}, fmt.Errorf("querying financial summary: %w", err)
	}

	fin, err := shapeFinancial(single(rows))
	if err != nil {
		return financialRow{}, fmt.Errorf("shaping financial summary: %w", err)
	}

	return fin, nil
}

func (s *Service) productionSummary(ctx context.Context, where string, args []any) (ProductionTotals, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(productionSummarySQL, where), args)
	if err != nil {
		return ProductionTotals{}, fmt.Errorf("querying production summary: %w", err)
	}

	prod, err := shapeProduction(single(rows))
	if err != nil {
		return ProductionTotals{}, fmt.Errorf("shaping production summary: %w", err)
	}

	return prod, nil
}

func (s *Service) events(ctx context.Context, tmpl, where string, args []any, kind EventKind) ([]TimelineEvent, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(tmpl, where), args)
	if err != nil {
		return nil, fmt.Errorf("querying %s events: %w", kind, err)
	}

	events, err := shapeEvents(rows, kind)
	if err != nil {
		return nil, fmt.Errorf("shaping %s events: %w", kind, err)
	}

	return events, nil
}
