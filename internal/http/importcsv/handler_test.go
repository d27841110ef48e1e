package importcsv_test

import (
	"bytes"
	"mime/multipart"
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
	"github.com/MrJamesThe3rd/herdbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/herdbook/internal/importer"
)

const ledgerCSV = "date;description;amount\n2026-01-30;AGROMAIS RACOES;-588,74\n2026-01-31;COOP LEITE;1.200,00\n"

func newServer(t *testing.T) (*finance.MockRepository, *finance.MockImportTx, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := finance.NewMockRepository(ctrl)
	itx := finance.NewMockImportTx(ctrl)

	h := importcsv.NewHandler(importer.NewService(nil, nil), finance.NewService(repo, "EUR"))

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return repo, itx, r
}

func upload(t *testing.T, h http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "extrato.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	repo, itx, srv := newServer(t)

	from := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().BeginImport(gomock.Any(), from, to).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(2)).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	rec := upload(t, srv, ledgerCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":2`)
	assert.Contains(t, rec.Body.String(), `"amount":"588.74"`)
}

func TestHandler_Import_Conflicts(t *testing.T) {
	repo, itx, srv := newServer(t)

	existing := &finance.Transaction{
		ID:             uuid.New(),
		Type:           finance.TypeExpense,
		Amount:         decimal.RequireFromString("588.74"),
		Currency:       "EUR",
		BaseAmount:     decimal.RequireFromString("588.74"),
		Description:    "Feed",
		RawDescription: "AGROMAIS RACOES",
		Date:           time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
	}

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*finance.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	rec := upload(t, srv, ledgerCSV)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"raw_description":"COOP LEITE"`)
	assert.Contains(t, rec.Body.String(), existing.ID.String())
}

func TestHandler_Import_UnknownFormat(t *testing.T) {
	_, _, srv := newServer(t)

	rec := upload(t, srv, "just some text\nwithout columns\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_Import_MissingFile(t *testing.T) {
	_, _, srv := newServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Confirm(t *testing.T) {
	repo, itx, srv := newServer(t)

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	body := `{"params":[{"type":"income","amount":"1200","description":"Milk","raw_description":"COOP LEITE","date":"2026-01-31"}]}`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":1`)
}
