package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/report"
	"github.com/MrJamesThe3rd/herdbook/internal/tier"
)

// premiumKinds are the job kinds that need the premium tier, matching the
// gating of their synchronous endpoints.
var premiumKinds = map[report.Kind]bool{
	report.KindProfitAndLoss: true,
	report.KindCohort:        true,
}

type Handler struct {
	svc   *report.Service
	tiers tier.Lookup
}

func NewHandler(svc *report.Service, tiers tier.Lookup) *Handler {
	return &Handler{svc: svc, tiers: tiers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.enqueue)
	r.Get("/{id}", h.get)
}

type enqueueRequest struct {
	Kind      report.Kind `json:"kind"`
	SpeciesID string      `json:"speciesId"`
	GroupID   string      `json:"groupId"`
	From      string      `json:"from"`
	To        string      `json:"to"`
}

type jobResponse struct {
	ID         uuid.UUID        `json:"id"`
	Kind       report.Kind      `json:"kind"`
	Filter     analytics.Filter `json:"filter"`
	GroupID    *string          `json:"groupId,omitempty"`
	Status     report.Status    `json:"status"`
	Result     json.RawMessage  `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

func toResponse(job *report.Job) jobResponse {
	return jobResponse{
		ID:         job.ID,
		Kind:       job.Kind,
		Filter:     job.Filter,
		GroupID:    job.GroupID,
		Status:     job.Status,
		Result:     job.Result,
		Error:      job.Error,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
}

// enqueue accepts a report request for background processing. For cohort
// jobs groupId names the cohort and is not applied as a filter.
func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if premiumKinds[req.Kind] && !h.tiers.Tier(r.Context()).Includes(tier.Premium) {
		http.Error(w, "premium tier required", http.StatusForbidden)
		return
	}

	var groupID *string

	filterGroup := req.GroupID
	if req.Kind == report.KindCohort {
		if req.GroupID != "" {
			groupID = new(req.GroupID)
		}

		filterGroup = ""
	}

	filter, err := analytics.ParseFilter(req.SpeciesID, filterGroup, req.From, req.To)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job, err := h.svc.Enqueue(r.Context(), req.Kind, filter, groupID)
	if err != nil {
		if errors.Is(err, report.ErrInvalidJob) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to enqueue report job", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusAccepted, toResponse(job))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	job, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		slog.Error("failed to get report job", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(job))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
