package analytics_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/database"
	analyticsHandler "github.com/MrJamesThe3rd/herdbook/internal/http/analytics"
)

type sqlLike string

func (s sqlLike) Matches(x any) bool {
	q, ok := x.(string)
	return ok && strings.Contains(q, string(s))
}

func (s sqlLike) String() string {
	return "query containing " + string(s)
}

func newServer(t *testing.T) (*analytics.MockQuerier, http.Handler) {
	t.Helper()

	q := analytics.NewMockQuerier(gomock.NewController(t))
	h := analyticsHandler.NewHandler(analytics.NewService(q))

	r := chi.NewRouter()
	r.Route("/v1/analytics", func(r chi.Router) {
		h.Routes(r)
		h.PremiumRoutes(r)
	})

	return q, r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func expectKPIRows(q *analytics.MockQuerier, args any) {
	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_revenue"), args).
		Return([]database.Row{{"total_revenue": "1250.50", "total_expense": "300.00"}}, nil)
	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_animals"), gomock.Nil()).
		Return([]database.Row{{"total_animals": "12"}}, nil)
	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_eggs"), args).
		Return([]database.Row{{"total_eggs": "0", "total_milk": "0", "avg_litter_size": "0"}}, nil)
}

func TestHandler_KPIs(t *testing.T) {
	q, srv := newServer(t)
	expectKPIRows(q, gomock.Nil())

	rec := get(srv, "/v1/analytics/kpis?speciesId=all&groupId=all")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1250.5, body["totalRevenue"])
	assert.Equal(t, 300.0, body["totalExpense"])
	assert.Equal(t, 950.5, body["grossMargin"])
	assert.Equal(t, 12.0, body["totalAnimals"])
	assert.Equal(t, 0.0, body["adg"])
	assert.Equal(t, 0.0, body["mortality"])
}

func TestHandler_KPIs_PassesFilter(t *testing.T) {
	q, srv := newServer(t)
	expectKPIRows(q, []any{"sp-1"})

	rec := get(srv, "/v1/analytics/kpis?speciesId=sp-1&groupId=all")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_KPIs_Idempotent(t *testing.T) {
	q, srv := newServer(t)
	expectKPIRows(q, gomock.Nil())
	expectKPIRows(q, gomock.Nil())

	first := get(srv, "/v1/analytics/kpis")
	second := get(srv, "/v1/analytics/kpis")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestHandler_KPIs_Failure(t *testing.T) {
	q, srv := newServer(t)

	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_revenue"), gomock.Any()).
		Return([]database.Row{{"total_revenue": "1", "total_expense": "1"}}, nil).AnyTimes()
	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_animals"), gomock.Any()).
		Return(nil, errors.New("connection refused")).AnyTimes()
	q.EXPECT().Query(gomock.Any(), sqlLike("AS total_eggs"), gomock.Any()).
		Return([]database.Row{{}}, nil).AnyTimes()

	rec := get(srv, "/v1/analytics/kpis")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error\n", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "totalRevenue")
}

func TestHandler_InvalidFilter(t *testing.T) {
	type testCase struct {
		name   string
		target string
	}

	tests := []testCase{
		{name: "kpis day first", target: "/v1/analytics/kpis?from=31-01-2026"},
		{name: "kpis month out of range", target: "/v1/analytics/kpis?from=2025-13-45"},
		{name: "time series bad to", target: "/v1/analytics/time-series?to=yesterday"},
		{name: "profit and loss reversed range", target: "/v1/analytics/profit-and-loss?from=2026-03-01&to=2026-01-01"},
		{name: "cohort bad from", target: "/v1/analytics/cohorts/layers-2024?from=2026-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no Query expectations: the filter fails before any query runs
			_, srv := newServer(t)

			rec := get(srv, tt.target)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "internal error\n", rec.Body.String())
		})
	}
}

func TestHandler_TimeSeries(t *testing.T) {
	type testCase struct {
		name     string
		rows     []database.Row
		err      error
		wantCode int
		wantBody string
	}

	tests := []testCase{
		{
			name: "ascending months",
			rows: []database.Row{
				{"month": "2025-01", "revenue": "10", "expense": "5"},
				{"month": "2025-02", "revenue": "0", "expense": "7.25"},
				{"month": "2025-03", "revenue": "3", "expense": "0"},
			},
			wantCode: http.StatusOK,
			wantBody: `[{"name":"2025-01","revenue":10,"expense":5},{"name":"2025-02","revenue":0,"expense":7.25},{"name":"2025-03","revenue":3,"expense":0}]`,
		},
		{
			name:     "no transactions",
			wantCode: http.StatusOK,
			wantBody: `[]`,
		},
		{
			name:     "query failure",
			err:      errors.New("syntax error"),
			wantCode: http.StatusInternalServerError,
			wantBody: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, srv := newServer(t)
			q.EXPECT().Query(gomock.Any(), sqlLike("ORDER BY month ASC"), gomock.Any()).Return(tt.rows, tt.err)

			rec := get(srv, "/v1/analytics/time-series")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestHandler_Cohort_NotFound(t *testing.T) {
	q, srv := newServer(t)
	q.EXPECT().Query(gomock.Any(), sqlLike("FROM groups g"), []any{"ghost"}).Return(nil, nil)

	rec := get(srv, "/v1/analytics/cohorts/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
