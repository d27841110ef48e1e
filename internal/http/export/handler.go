package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/herdbook/internal/export"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	productionHandler "github.com/MrJamesThe3rd/herdbook/internal/http/production"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions.csv", h.transactions)
	r.Get("/production.csv", h.production)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := finance.ListFilter{}

	if s := q.Get("species_id"); s != "" && s != "all" {
		filter.SpeciesID = new(s)
	}

	if s := q.Get("group_id"); s != "" && s != "all" {
		filter.GroupID = new(s)
	}

	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.StartDate = &t
	}

	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.EndDate = &t
	}

	var buf bytes.Buffer

	if _, err := h.svc.Transactions(r.Context(), filter, &buf); err != nil {
		slog.Error("failed to export transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeCSV(w, "transactions", buf.Bytes())
}

func (h *Handler) production(w http.ResponseWriter, r *http.Request) {
	filter, err := productionHandler.ParseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	if _, err := h.svc.Production(r.Context(), filter, &buf); err != nil {
		slog.Error("failed to export production records", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeCSV(w, "production", buf.Bytes())
}

// writeCSV sends an already rendered file so a failed export never leaves a
// truncated download behind.
func writeCSV(w http.ResponseWriter, kind string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", export.Filename(kind, time.Now())))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
