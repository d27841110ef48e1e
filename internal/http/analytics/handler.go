package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
)

const internalError = "internal error"

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the reports open to every tier.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/kpis", h.kpis)
	r.Get("/time-series", h.timeSeries)
}

// PremiumRoutes registers the reports gated behind the premium tier.
func (h *Handler) PremiumRoutes(r chi.Router) {
	r.Get("/profit-and-loss", h.profitAndLoss)
	r.Get("/cohorts/{groupId}", h.cohort)
}

func (h *Handler) kpis(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	kpis, err := h.svc.KPIs(r.Context(), filter)
	if err != nil {
		slog.Error("failed to compute kpis", "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return
	}

	writeJSON(w, kpis)
}

func (h *Handler) timeSeries(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	buckets, err := h.svc.TimeSeries(r.Context(), filter)
	if err != nil {
		slog.Error("failed to compute time series", "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return
	}

	if buckets == nil {
		buckets = []analytics.MonthBucket{}
	}

	writeJSON(w, buckets)
}

func (h *Handler) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	pl, err := h.svc.ProfitAndLoss(r.Context(), filter)
	if err != nil {
		slog.Error("failed to compute profit and loss", "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return
	}

	writeJSON(w, pl)
}

func (h *Handler) cohort(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Cohort(r.Context(), chi.URLParam(r, "groupId"), filter)
	if err != nil {
		if errors.Is(err, analytics.ErrGroupNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to compute cohort report", "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return
	}

	writeJSON(w, report)
}

// parseFilter answers a malformed filter like any other reporting failure:
// logged in full, 500 with a generic body.
func parseFilter(w http.ResponseWriter, r *http.Request) (analytics.Filter, bool) {
	q := r.URL.Query()

	filter, err := analytics.ParseFilter(q.Get("speciesId"), q.Get("groupId"), q.Get("from"), q.Get("to"))
	if err != nil {
		slog.Error("failed to parse report filter", "query", r.URL.RawQuery, "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return analytics.Filter{}, false
	}

	return filter, true
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a clean 500 with no partial body.
func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		http.Error(w, internalError, http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
