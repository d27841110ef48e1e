package matching_test

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

	matchingHandler "github.com/MrJamesThe3rd/herdbook/internal/http/matching"
	"github.com/MrJamesThe3rd/herdbook/internal/matching"
)

func newServer(t *testing.T) (*matching.MockRepository, http.Handler) {
	t.Helper()

	repo := matching.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/category-mappings", matchingHandler.NewHandler(matching.NewService(repo)).Routes)

	return repo, r
}

func TestHandler_Suggest(t *testing.T) {
	repo, srv := newServer(t)
	feed := uuid.New()

	repo.EXPECT().FindCategory(gomock.Any(), "AGROMAIS RACOES 0042").Return(&feed, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category-mappings/suggest?raw_description=AGROMAIS+RACOES+0042", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), feed.String())
}

func TestHandler_Learn(t *testing.T) {
	feed := uuid.New()

	type testCase struct {
		name      string
		body      string
		setupMock func(repo *matching.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "stores mapping",
			body: `{"raw_pattern":"AGROMAIS","category_id":"` + feed.String() + `"}`,
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().CreateMapping(gomock.Any(), "AGROMAIS", feed).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "blank pattern",
			body:      `{"raw_pattern":"  ","category_id":"` + feed.String() + `"}`,
			setupMock: func(repo *matching.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown category",
			body: `{"raw_pattern":"AGROMAIS","category_id":"` + feed.String() + `"}`,
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().CreateMapping(gomock.Any(), "AGROMAIS", feed).Return(matching.ErrUnknownCategory)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "missing category",
			body:      `{"raw_pattern":"AGROMAIS"}`,
			setupMock: func(repo *matching.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			tt.setupMock(repo)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/category-mappings", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	repo, srv := newServer(t)
	feed := uuid.New()

	repo.EXPECT().ListMappings(gomock.Any()).Return([]*matching.Mapping{
		{ID: uuid.New(), RawPattern: "AGROMAIS", CategoryID: feed, CategoryName: "Feed", CreatedAt: time.Now()},
	}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category-mappings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"raw_pattern":"AGROMAIS"`)
	assert.Contains(t, rec.Body.String(), `"category_name":"Feed"`)
}

func TestHandler_List_Empty(t *testing.T) {
	repo, srv := newServer(t)
	repo.EXPECT().ListMappings(gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category-mappings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHandler_Forget(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		path      string
		setupMock func(repo *matching.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "deletes",
			path: "/category-mappings/" + id.String(),
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().DeleteMapping(gomock.Any(), id).Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name: "missing",
			path: "/category-mappings/" + id.String(),
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().DeleteMapping(gomock.Any(), id).Return(matching.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "bad id",
			path:      "/category-mappings/nope",
			setupMock: func(repo *matching.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			tt.setupMock(repo)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
