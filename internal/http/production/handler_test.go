package production_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	productionHandler "github.com/MrJamesThe3rd/herdbook/internal/http/production"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

func newServer(t *testing.T) (*production.MockRepository, http.Handler) {
	t.Helper()

	repo := production.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/production", productionHandler.NewHandler(production.NewService(repo)).Routes)

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
		setupMock func(repo *production.MockRepository)
		wantCode  int
		wantBody  string
	}

	tests := []testCase{
		{
			name: "egg count",
			body: `{"group_id":"layers-2024","event_type":"egg_count","date":"2026-02-01","egg_count":412}`,
			setupMock: func(repo *production.MockRepository) {
				repo.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `"egg_count":412`,
		},
		{
			name:      "measure not allowed for event type",
			body:      `{"event_type":"egg_count","date":"2026-02-01","egg_count":10,"weight":"3.2"}`,
			setupMock: func(repo *production.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "unknown event type",
			body:      `{"event_type":"shearing","date":"2026-02-01"}`,
			setupMock: func(repo *production.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "bad date",
			body:      `{"event_type":"treatment","date":"yesterday"}`,
			setupMock: func(repo *production.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			tt.setupMock(repo)

			rec := do(srv, http.MethodPost, "/production", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().ListRecords(gomock.Any(), production.ListFilter{
		SpeciesID: new("cattle"),
		EventType: new(production.EventMilkVolume),
		EndDate:   new(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)),
	}).Return(nil, nil)

	rec := do(srv, http.MethodGet, "/production?species_id=cattle&group_id=all&event_type=milk_volume&end_date=2026-02-28", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandler_List_BadFilter(t *testing.T) {
	_, srv := newServer(t)

	for _, target := range []string{
		"/production?event_type=shearing",
		"/production?animal_id=42",
		"/production?start_date=01-02-2026",
	} {
		rec := do(srv, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandler_Delete_NotFound(t *testing.T) {
	repo, srv := newServer(t)
	id := uuid.New()

	repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(production.ErrNotFound)

	rec := do(srv, http.MethodDelete, "/production/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
