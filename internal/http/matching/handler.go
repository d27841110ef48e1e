package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
	r.Delete("/{id}", h.forget)
}

type mappingResponse struct {
	ID           uuid.UUID `json:"id"`
	RawPattern   string    `json:"raw_pattern"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type suggestResponse struct {
	RawDescription string     `json:"raw_description"`
	CategoryID     *uuid.UUID `json:"category_id"`
}

type learnRequest struct {
	RawPattern string    `json:"raw_pattern"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, "failed to list category mappings", err)
		return
	}

	out := make([]mappingResponse, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, mappingResponse{
			ID:           m.ID,
			RawPattern:   m.RawPattern,
			CategoryID:   m.CategoryID,
			CategoryName: m.CategoryName,
			CreatedAt:    m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	categoryID, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		writeError(w, "failed to suggest category", err)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{RawDescription: rawDesc, CategoryID: categoryID})
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CategoryID == uuid.Nil {
		http.Error(w, "category_id is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.CategoryID); err != nil {
		writeError(w, "failed to learn category mapping", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid mapping id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Forget(r.Context(), id); err != nil {
		writeError(w, "failed to delete category mapping", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, matching.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, matching.ErrEmptyPattern), errors.Is(err, matching.ErrUnknownCategory):
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
