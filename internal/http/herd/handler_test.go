package herd_test

import (
	"encoding/json"
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

	"github.com/MrJamesThe3rd/herdbook/internal/herd"
	herdHandler "github.com/MrJamesThe3rd/herdbook/internal/http/herd"
)

func newServer(t *testing.T) (*herd.MockRepository, http.Handler) {
	t.Helper()

	repo := herd.NewMockRepository(gomock.NewController(t))
	h := herdHandler.NewHandler(herd.NewService(repo))

	r := chi.NewRouter()
	r.Route("/species", h.SpeciesRoutes)
	r.Route("/groups", h.GroupRoutes)
	r.Route("/animals", h.AnimalRoutes)

	return repo, r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_CreateSpecies(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().CreateSpecies(gomock.Any(), &herd.Species{ID: "dairy-goats", Name: "Dairy Goats", IsDairy: true, IsRuminant: true}).Return(nil)

	rec := do(srv, http.MethodPost, "/species", `{"name":"Dairy Goats","is_dairy":true,"is_ruminant":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dairy-goats", body["id"])
}

func TestHandler_CreateSpecies_Conflict(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().CreateSpecies(gomock.Any(), gomock.Any()).Return(herd.ErrConflict)

	rec := do(srv, http.MethodPost, "/species", `{"name":"Cattle"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_ListGroups(t *testing.T) {
	type testCase struct {
		name    string
		target  string
		species any
	}

	tests := []testCase{
		{name: "all species", target: "/groups?species_id=all", species: gomock.Nil()},
		{name: "no filter", target: "/groups", species: gomock.Nil()},
		{name: "one species", target: "/groups?species_id=poultry", species: new("poultry")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)

			repo.EXPECT().ListGroups(gomock.Any(), tt.species).Return([]*herd.Group{
				{ID: "layers-2024", Name: "Layers 2024", SpeciesID: "poultry"},
			}, nil)

			rec := do(srv, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"id":"layers-2024"`)
		})
	}
}

func TestHandler_CreateAnimal(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().CreateAnimal(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, a *herd.Animal) error {
		assert.Equal(t, herd.StatusActive, a.Status)
		assert.Equal(t, herd.SexUnknown, a.Sex)
		require.NotNil(t, a.BirthDate)
		assert.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), *a.BirthDate)

		a.ID = uuid.New()

		return nil
	})

	rec := do(srv, http.MethodPost, "/animals", `{"species_id":"cattle","tag":"PT-0042","birth_date":"2025-04-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"birth_date":"2025-04-02"`)
}

func TestHandler_UpdateStatus(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		setupMock func(repo *herd.MockRepository, id uuid.UUID)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "sold",
			body: `{"status":"sold"}`,
			setupMock: func(repo *herd.MockRepository, id uuid.UUID) {
				repo.EXPECT().UpdateStatus(gomock.Any(), id, herd.StatusSold).Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:      "unknown status",
			body:      `{"status":"lost"}`,
			setupMock: func(repo *herd.MockRepository, id uuid.UUID) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing animal",
			body: `{"status":"dead"}`,
			setupMock: func(repo *herd.MockRepository, id uuid.UUID) {
				repo.EXPECT().UpdateStatus(gomock.Any(), id, herd.StatusDead).Return(herd.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			id := uuid.New()
			tt.setupMock(repo, id)

			rec := do(srv, http.MethodPatch, "/animals/"+id.String()+"/status", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
