package production

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

type Handler struct {
	svc *production.Service
}

func NewHandler(svc *production.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/event-types", h.eventTypes)
	r.Delete("/{id}", h.delete)
}

type recordDTO struct {
	ID         *uuid.UUID           `json:"id,omitempty"`
	SpeciesID  *string              `json:"species_id,omitempty"`
	GroupID    *string              `json:"group_id,omitempty"`
	AnimalID   *uuid.UUID           `json:"animal_id,omitempty"`
	EventType  production.EventType `json:"event_type"`
	Date       string               `json:"date"`
	Quantity   *decimal.Decimal     `json:"quantity,omitempty"`
	Weight     *decimal.Decimal     `json:"weight,omitempty"`
	EggCount   *int64               `json:"egg_count,omitempty"`
	MilkVolume *decimal.Decimal     `json:"milk_volume,omitempty"`
	Notes      string               `json:"notes,omitempty"`
}

func toDTO(rec *production.Record) recordDTO {
	return recordDTO{
		ID:         &rec.ID,
		SpeciesID:  rec.SpeciesID,
		GroupID:    rec.GroupID,
		AnimalID:   rec.AnimalID,
		EventType:  rec.EventType,
		Date:       rec.Date.Format(time.DateOnly),
		Quantity:   rec.Quantity,
		Weight:     rec.Weight,
		EggCount:   rec.EggCount,
		MilkVolume: rec.MilkVolume,
		Notes:      rec.Notes,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req recordDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Create(r.Context(), production.CreateParams{
		SpeciesID:  req.SpeciesID,
		GroupID:    req.GroupID,
		AnimalID:   req.AnimalID,
		EventType:  req.EventType,
		Date:       date,
		Quantity:   req.Quantity,
		Weight:     req.Weight,
		EggCount:   req.EggCount,
		MilkVolume: req.MilkVolume,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, "failed to create production record", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, "failed to list production records", err)
		return
	}

	out := make([]recordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toDTO(rec))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) eventTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, production.EventTypes)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, "failed to delete production record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ParseListFilter reads species_id, group_id, animal_id, event_type,
// start_date and end_date from the query string.
func ParseListFilter(r *http.Request) (production.ListFilter, error) {
	q := r.URL.Query()
	filter := production.ListFilter{}

	if s := q.Get("species_id"); s != "" && s != "all" {
		filter.SpeciesID = new(s)
	}

	if s := q.Get("group_id"); s != "" && s != "all" {
		filter.GroupID = new(s)
	}

	if s := q.Get("animal_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return production.ListFilter{}, errors.New("invalid animal_id")
		}

		filter.AnimalID = &id
	}

	if s := q.Get("event_type"); s != "" {
		et := production.EventType(s)
		if !et.Valid() {
			return production.ListFilter{}, production.ErrInvalidEventType
		}

		filter.EventType = &et
	}

	for key, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		s := q.Get(key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return production.ListFilter{}, errors.New(key + " must be YYYY-MM-DD")
		}

		*dst = &t
	}

	return filter, nil
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, production.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, production.ErrInvalidEventType), errors.Is(err, production.ErrInvalidRecord):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(msg, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
