package finance_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	financeHandler "github.com/MrJamesThe3rd/herdbook/internal/http/finance"
)

func newServer(t *testing.T) (*finance.MockRepository, http.Handler) {
	t.Helper()

	repo := finance.NewMockRepository(gomock.NewController(t))
	h := financeHandler.NewHandler(finance.NewService(repo, "EUR"))

	r := chi.NewRouter()
	r.Route("/transactions", h.Routes)
	r.Route("/categories", h.CategoryRoutes)
	r.Route("/fx-rates", h.RateRoutes)

	return repo, r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		setupMock func(repo *finance.MockRepository)
		wantCode  int
		verify    func(t *testing.T, body map[string]any)
	}

	tests := []testCase{
		{
			name: "converts foreign currency",
			body: `{"type":"income","amount":"100","currency":"usd","description":"Wool","date":"2026-01-15","species_id":"sheep"}`,
			setupMock: func(repo *finance.MockRepository) {
				repo.EXPECT().RateAt(gomock.Any(), "USD", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)).
					Return(&finance.FxRate{Currency: "USD", RateToBase: decimal.RequireFromString("0.9")}, nil)
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusCreated,
			verify: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "USD", body["currency"])
				assert.Equal(t, "90", body["base_amount"])
				assert.Equal(t, "2026-01-15", body["date"])
				assert.Equal(t, "sheep", body["species_id"])
			},
		},
		{
			name:      "bad date",
			body:      `{"type":"income","amount":"100","description":"Wool","date":"15/01/2026"}`,
			setupMock: func(repo *finance.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "negative amount",
			body:      `{"type":"expense","amount":"-5","description":"Feed","date":"2026-01-15"}`,
			setupMock: func(repo *finance.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing rate",
			body: `{"type":"expense","amount":"5","currency":"GBP","description":"Feed","date":"2026-01-15"}`,
			setupMock: func(repo *finance.MockRepository) {
				repo.EXPECT().RateAt(gomock.Any(), "GBP", gomock.Any()).Return(nil, finance.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			tt.setupMock(repo)

			rec := do(srv, http.MethodPost, "/transactions", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.verify != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.verify(t, body)
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().ListTransactions(gomock.Any(), finance.ListFilter{
		Type:      new(finance.TypeExpense),
		GroupID:   new("layers-2024"),
		StartDate: new(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}).Return(nil, nil)

	rec := do(srv, http.MethodGet, "/transactions?type=expense&group_id=layers-2024&start_date=2026-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandler_Get_NotFound(t *testing.T) {
	repo, srv := newServer(t)
	id := uuid.New()

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, finance.ErrNotFound)

	rec := do(srv, http.MethodGet, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Update(t *testing.T) {
	repo, srv := newServer(t)
	id := uuid.New()

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&finance.Transaction{
		ID:       id,
		Type:     finance.TypeExpense,
		Amount:   decimal.RequireFromString("10"),
		Currency: "EUR",
		Date:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, tx *finance.Transaction) error {
		assert.Equal(t, "25.00", tx.BaseAmount.StringFixed(2))
		return nil
	})

	rec := do(srv, http.MethodPatch, "/transactions/"+id.String(), `{"amount":"25"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Categories(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(finance.ErrConflict)

	rec := do(srv, http.MethodPost, "/categories", `{"name":"Feed","type":"expense"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(srv, http.MethodPost, "/categories", `{"name":"","type":"expense"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RateAt_BaseCurrency(t *testing.T) {
	_, srv := newServer(t)

	rec := do(srv, http.MethodGet, "/fx-rates/eur?date=2026-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1", body["rate_to_base"])
	assert.Equal(t, "2026-03-01", body["as_of"])
}
