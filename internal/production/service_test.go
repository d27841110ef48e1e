package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

func num(s string) *decimal.Decimal {
	return new(decimal.RequireFromString(s))
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		record  production.Record
		wantErr error
	}

	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name:   "EggCount",
			record: production.Record{EventType: production.EventEggCount, EggCount: new(int64(310)), Date: date},
		},
		{
			name:   "MilkVolume",
			record: production.Record{EventType: production.EventMilkVolume, MilkVolume: num("18.4"), Date: date},
		},
		{
			name:   "Weight",
			record: production.Record{EventType: production.EventWeight, Weight: num("412.5"), Date: date},
		},
		{
			name:   "BirthWithLitter",
			record: production.Record{EventType: production.EventBirth, Quantity: num("3"), Date: date},
		},
		{
			name:   "TreatmentWithoutMeasure",
			record: production.Record{EventType: production.EventTreatment, Notes: "Deworming", Date: date},
		},
		{
			name:    "UnknownType",
			record:  production.Record{EventType: "shearing", Date: date},
			wantErr: production.ErrInvalidEventType,
		},
		{
			name:    "MissingRequiredMeasure",
			record:  production.Record{EventType: production.EventEggCount, Date: date},
			wantErr: production.ErrInvalidRecord,
		},
		{
			name:    "ForeignMeasure",
			record:  production.Record{EventType: production.EventWeight, Weight: num("10"), MilkVolume: num("2"), Date: date},
			wantErr: production.ErrInvalidRecord,
		},
		{
			name:    "MeasureOnMeasurelessEvent",
			record:  production.Record{EventType: production.EventTransfer, Quantity: num("4"), Date: date},
			wantErr: production.ErrInvalidRecord,
		},
		{
			name:    "Negative",
			record:  production.Record{EventType: production.EventDeath, Quantity: num("-1"), Date: date},
			wantErr: production.ErrInvalidRecord,
		},
		{
			name:    "MissingDate",
			record:  production.Record{EventType: production.EventCull, Quantity: num("1")},
			wantErr: production.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := production.Validate(&tt.record)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestEventTypes_AllValid(t *testing.T) {
	assert.Len(t, production.EventTypes, 12)

	for _, et := range production.EventTypes {
		assert.True(t, et.Valid(), et)
	}
}

func TestEventType_Measure(t *testing.T) {
	assert.Equal(t, "egg_count", production.EventEggCount.Measure())
	assert.Equal(t, "quantity", production.EventBirth.Measure())
	assert.Equal(t, "none", production.EventGrazingMove.Measure())
	assert.Equal(t, "none", production.EventType("harvest").Measure())
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := production.NewMockRepository(ctrl)
	svc := production.NewService(repo)

	repo.EXPECT().
		CreateRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *production.Record) error {
			r.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), production.CreateParams{
		GroupID:   new("layers-2024"),
		EventType: "EGG_COUNT",
		EggCount:  new(int64(288)),
		Date:      time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Notes:     " morning collection ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, production.EventEggCount, got.EventType)
	assert.Equal(t, "morning collection", got.Notes)
}

func TestService_Create_RejectsBeforeStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := production.NewService(production.NewMockRepository(ctrl))

	got, err := svc.Create(context.Background(), production.CreateParams{
		EventType: production.EventMilkVolume,
		Date:      time.Now(),
	})
	assert.ErrorIs(t, err, production.ErrInvalidRecord)
	assert.Nil(t, got)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := production.NewMockRepository(ctrl)
	svc := production.NewService(repo)

	id := uuid.New()
	repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(production.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), production.ErrNotFound)
}
