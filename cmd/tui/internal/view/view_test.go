package view

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeframe_Range(t *testing.T) {
	now := time.Date(2026, time.May, 14, 15, 30, 0, 0, time.UTC)

	type testCase struct {
		tf       Timeframe
		wantFrom time.Time
		wantTo   time.Time
	}

	tests := []testCase{
		{tf: TimeframeThisMonth, wantFrom: day(2026, time.May, 1), wantTo: day(2026, time.May, 14)},
		{tf: TimeframeLastMonth, wantFrom: day(2026, time.April, 1), wantTo: day(2026, time.April, 30)},
		{tf: TimeframeThisQuarter, wantFrom: day(2026, time.April, 1), wantTo: day(2026, time.May, 14)},
		{tf: TimeframeThisYear, wantFrom: day(2026, time.January, 1), wantTo: day(2026, time.May, 14)},
		{tf: TimeframeLastYear, wantFrom: day(2025, time.January, 1), wantTo: day(2025, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			from, to := tt.tf.Range(now)
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.Equal(t, tt.wantFrom, *from)
			assert.Equal(t, tt.wantTo, *to)
		})
	}

	t.Run("open ended", func(t *testing.T) {
		for _, tf := range []Timeframe{TimeframeAll, TimeframeCustom} {
			from, to := tf.Range(now)
			assert.Nil(t, from)
			assert.Nil(t, to)
		}
	})

	t.Run("last month across a year boundary", func(t *testing.T) {
		from, to := TimeframeLastMonth.Range(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, day(2025, time.December, 1), *from)
		assert.Equal(t, day(2025, time.December, 31), *to)
	})
}

func TestCustomRange(t *testing.T) {
	sel, err := customRange(" 2026-01-01", "2026-03-31 ")
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.January, 1), *sel.From)
	assert.Equal(t, day(2026, time.March, 31), *sel.To)
	assert.Equal(t, "2026-01-01 to 2026-03-31", sel.Label)

	_, err = customRange("01/01/2026", "2026-03-31")
	assert.Error(t, err)

	_, err = customRange("2026-04-01", "2026-03-31")
	assert.EqualError(t, err, "from date is after to date")
}

func TestBarLength(t *testing.T) {
	type testCase struct {
		name  string
		value float64
		peak  float64
		want  int
	}

	tests := []testCase{
		{name: "peak fills the width", value: 500, peak: 500, want: 40},
		{name: "half", value: 250, peak: 500, want: 20},
		{name: "tiny values stay visible", value: 0.5, peak: 500, want: 1},
		{name: "zero", value: 0, peak: 500, want: 0},
		{name: "empty series", value: 0, peak: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, barLength(tt.value, tt.peak, 40))
		})
	}
}

func TestRenderSeries(t *testing.T) {
	out := renderSeries([]analytics.MonthBucket{
		{Name: "2026-01", Revenue: 1000, Expense: 250},
		{Name: "2026-02", Revenue: 0, Expense: 500},
	}, 8)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	assert.True(t, strings.HasPrefix(lines[0], "2026-01"))
	assert.Equal(t, 8, strings.Count(lines[0], "█"))
	assert.Equal(t, 2, strings.Count(lines[1], "▒"))
	assert.True(t, strings.HasPrefix(lines[2], "2026-02"))
	assert.Equal(t, 0, strings.Count(lines[2], "█"))
	assert.Equal(t, 4, strings.Count(lines[3], "▒"))

	assert.Contains(t, renderSeries(nil, 8), "No transactions")
}

func TestRecordParams(t *testing.T) {
	type testCase struct {
		name      string
		eventType production.EventType
		value     string
		check     func(t *testing.T, p production.CreateParams)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:      "eggs",
			eventType: production.EventEggCount,
			value:     "42",
			check: func(t *testing.T, p production.CreateParams) {
				require.NotNil(t, p.EggCount)
				assert.Equal(t, int64(42), *p.EggCount)
				assert.Nil(t, p.Quantity)
			},
		},
		{
			name:      "milk",
			eventType: production.EventMilkVolume,
			value:     "18.5",
			check: func(t *testing.T, p production.CreateParams) {
				require.NotNil(t, p.MilkVolume)
				assert.Equal(t, "18.5", p.MilkVolume.String())
			},
		},
		{
			name:      "weight",
			eventType: production.EventWeight,
			value:     "312",
			check: func(t *testing.T, p production.CreateParams) {
				require.NotNil(t, p.Weight)
				assert.True(t, decimal.NewFromInt(312).Equal(*p.Weight))
			},
		},
		{
			name:      "births",
			eventType: production.EventBirth,
			value:     "9",
			check: func(t *testing.T, p production.CreateParams) {
				require.NotNil(t, p.Quantity)
				assert.Equal(t, "9", p.Quantity.String())
			},
		},
		{
			name:      "no measure",
			eventType: production.EventTreatment,
			value:     "",
			check: func(t *testing.T, p production.CreateParams) {
				assert.Nil(t, p.Quantity)
				assert.Nil(t, p.Weight)
				assert.Nil(t, p.EggCount)
				assert.Nil(t, p.MilkVolume)
			},
		},
		{name: "measure on event without one", eventType: production.EventTransfer, value: "3", wantErr: true},
		{name: "not a number", eventType: production.EventBirth, value: "nine", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := recordParams(string(tt.eventType), "2026-03-01", tt.value, "pigs", "note")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.eventType, p.EventType)
			assert.Equal(t, day(2026, time.March, 1), p.Date)
			require.NotNil(t, p.SpeciesID)
			assert.Equal(t, "pigs", *p.SpeciesID)
			tt.check(t, p)
		})
	}

	_, err := recordParams(string(production.EventBirth), "yesterday", "1", "", "")
	assert.Error(t, err)
}

func TestSelectedParams(t *testing.T) {
	fresh := []finance.CreateParams{{Description: "hay"}}
	conflicts := []finance.Conflict{
		{Incoming: finance.CreateParams{Description: "feed"}},
		{Incoming: finance.CreateParams{Description: "vet"}},
	}

	got := selectedParams(fresh, conflicts, map[int]bool{1: true})
	require.Len(t, got, 2)
	assert.Equal(t, "hay", got[0].Description)
	assert.Equal(t, "vet", got[1].Description)

	assert.Len(t, selectedParams(fresh, conflicts, nil), 1)
	assert.Len(t, fresh, 1)
}
