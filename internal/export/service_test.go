package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/herdbook/internal/export"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

func readAll(t *testing.T, b *bytes.Buffer) [][]string {
	t.Helper()

	rows, err := csv.NewReader(b).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestService_Transactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := finance.NewMockRepository(ctrl)
	svc := export.NewService(finance.NewService(repo, "EUR"), production.NewService(production.NewMockRepository(ctrl)))

	id := uuid.New()
	date := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	filter := finance.ListFilter{SpeciesID: new("poultry")}

	repo.EXPECT().ListTransactions(gomock.Any(), filter).Return([]*finance.Transaction{
		{
			ID:             id,
			SpeciesID:      new("poultry"),
			Category:       &finance.Category{Name: "Feed"},
			Type:           finance.TypeExpense,
			Amount:         decimal.RequireFromString("100"),
			Currency:       "USD",
			BaseAmount:     decimal.RequireFromString("92.5"),
			Description:    "Layer feed, 500kg",
			RawDescription: "AGROMAIS RACOES",
			Date:           date,
		},
	}, nil)

	var buf bytes.Buffer
	n, err := svc.Transactions(context.Background(), filter, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"id", "date", "type", "category", "description", "raw_description",
		"amount", "currency", "base_amount", "species_id", "group_id",
	}, rows[0])
	assert.Equal(t, []string{
		id.String(), "2026-01-30", "expense", "Feed", "Layer feed, 500kg", "AGROMAIS RACOES",
		"100.00", "USD", "92.50", "poultry", "",
	}, rows[1])
}

func TestService_Transactions_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := finance.NewMockRepository(ctrl)
	svc := export.NewService(finance.NewService(repo, "EUR"), nil)

	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	var buf bytes.Buffer
	_, err := svc.Transactions(context.Background(), finance.ListFilter{}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestService_Production(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := production.NewMockRepository(ctrl)
	svc := export.NewService(nil, production.NewService(repo))

	eggs := uuid.New()
	milk := uuid.New()
	cow := uuid.New()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().ListRecords(gomock.Any(), production.ListFilter{}).Return([]*production.Record{
		{ID: eggs, GroupID: new("layers-2024"), EventType: production.EventEggCount, Date: date, EggCount: new(int64(412))},
		{ID: milk, AnimalID: &cow, EventType: production.EventMilkVolume, Date: date, MilkVolume: new(decimal.RequireFromString("31.5")), Notes: "evening"},
	}, nil)

	var buf bytes.Buffer
	n, err := svc.Production(context.Background(), production.ListFilter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := readAll(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, "event_type", rows[0][2])
	assert.Equal(t, []string{eggs.String(), "2026-02-01", "egg_count", "", "layers-2024", "", "", "", "412", "", ""}, rows[1])
	assert.Equal(t, []string{milk.String(), "2026-02-01", "milk_volume", "", "", cow.String(), "", "", "", "31.5", "evening"}, rows[2])
}

func TestWriteTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteTransactions(&buf, nil))

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "id", rows[0][0])
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "herdbook_transactions_20260131.csv", export.Filename("transactions", at))
	assert.Equal(t, "herdbook_milk_log_20260131.csv", export.Filename("milk log", at))
}
