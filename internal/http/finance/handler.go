package finance

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

type Handler struct {
	svc *finance.Service
}

func NewHandler(svc *finance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Post("/", h.createCategory)
	r.Get("/", h.listCategories)
}

func (h *Handler) RateRoutes(r chi.Router) {
	r.Put("/", h.setRate)
	r.Get("/{currency}", h.rateAt)
}

type createTransactionRequest struct {
	SpeciesID   *string         `json:"species_id,omitempty"`
	GroupID     *string         `json:"group_id,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Type        finance.Type    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), finance.CreateParams{
		SpeciesID:   req.SpeciesID,
		GroupID:     req.GroupID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		writeError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := finance.ListFilter{}

	if s := q.Get("type"); s != "" {
		filter.Type = new(finance.Type(s))
	}

	if s := q.Get("species_id"); s != "" {
		filter.SpeciesID = new(s)
	}

	if s := q.Get("group_id"); s != "" {
		filter.GroupID = new(s)
	}

	if s := q.Get("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}

		filter.CategoryID = &id
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Type        *finance.Type    `json:"type,omitempty"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get transaction", err)
		return
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Currency != nil {
		tx.Currency = *req.Currency
	}

	if req.Type != nil {
		tx.Type = *req.Type
	}

	if req.CategoryID != nil {
		tx.CategoryID = req.CategoryID
		tx.Category = nil
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		tx.Date = date
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		writeError(w, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type createCategoryRequest struct {
	Name string       `json:"name"`
	Type finance.Type `json:"type"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.Name, req.Type)
	if err != nil {
		writeError(w, "failed to create category", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(c))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, "failed to list categories", err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}

	writeJSON(w, http.StatusOK, out)
}

type setRateRequest struct {
	Currency   string          `json:"currency"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	AsOf       string          `json:"as_of"`
}

func (h *Handler) setRate(w http.ResponseWriter, r *http.Request) {
	var req setRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asOf, err := time.Parse(time.DateOnly, req.AsOf)
	if err != nil {
		http.Error(w, "as_of must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rate, err := h.svc.SetRate(r.Context(), req.Currency, req.RateToBase, asOf)
	if err != nil {
		writeError(w, "failed to set rate", err)
		return
	}

	writeJSON(w, http.StatusOK, toRateResponse(rate))
}

// rateAt answers the rate in force on ?date=YYYY-MM-DD, today by default.
func (h *Handler) rateAt(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC().Truncate(24 * time.Hour)

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		date = t
	}

	rate, err := h.svc.RateAt(r.Context(), chi.URLParam(r, "currency"), date)
	if err != nil {
		writeError(w, "failed to look up rate", err)
		return
	}

	writeJSON(w, http.StatusOK, toRateResponse(rate))
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, finance.ErrNotFound), errors.Is(err, finance.ErrNoRate):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, finance.ErrInvalidTransaction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, finance.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
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
