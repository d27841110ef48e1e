package herd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/herd"
)

type Handler struct {
	svc *herd.Service
}

func NewHandler(svc *herd.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) SpeciesRoutes(r chi.Router) {
	r.Post("/", h.createSpecies)
	r.Get("/", h.listSpecies)
}

func (h *Handler) GroupRoutes(r chi.Router) {
	r.Post("/", h.createGroup)
	r.Get("/", h.listGroups)
}

func (h *Handler) AnimalRoutes(r chi.Router) {
	r.Post("/", h.createAnimal)
	r.Get("/", h.listAnimals)
	r.Get("/{id}", h.getAnimal)
	r.Patch("/{id}/status", h.updateStatus)
}

type speciesDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsDairy    bool   `json:"is_dairy"`
	IsRuminant bool   `json:"is_ruminant"`
}

type groupDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	SpeciesID string     `json:"species_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type animalResponse struct {
	ID        uuid.UUID   `json:"id"`
	SpeciesID string      `json:"species_id"`
	GroupID   *string     `json:"group_id,omitempty"`
	Tag       string      `json:"tag"`
	Sex       herd.Sex    `json:"sex"`
	BirthDate *string     `json:"birth_date,omitempty"`
	Status    herd.Status `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func toAnimalResponse(a *herd.Animal) animalResponse {
	resp := animalResponse{
		ID:        a.ID,
		SpeciesID: a.SpeciesID,
		GroupID:   a.GroupID,
		Tag:       a.Tag,
		Sex:       a.Sex,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}

	if a.BirthDate != nil {
		resp.BirthDate = new(a.BirthDate.Format(time.DateOnly))
	}

	return resp
}

func (h *Handler) createSpecies(w http.ResponseWriter, r *http.Request) {
	var req speciesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sp, err := h.svc.CreateSpecies(r.Context(), herd.Species{
		ID:         req.ID,
		Name:       req.Name,
		IsDairy:    req.IsDairy,
		IsRuminant: req.IsRuminant,
	})
	if err != nil {
		writeError(w, "failed to create species", err)
		return
	}

	writeJSON(w, http.StatusCreated, speciesDTO(*sp))
}

func (h *Handler) listSpecies(w http.ResponseWriter, r *http.Request) {
	species, err := h.svc.ListSpecies(r.Context())
	if err != nil {
		writeError(w, "failed to list species", err)
		return
	}

	out := make([]speciesDTO, 0, len(species))
	for _, sp := range species {
		out = append(out, speciesDTO(*sp))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.CreateGroup(r.Context(), herd.Group{
		ID:        req.ID,
		Name:      req.Name,
		SpeciesID: req.SpeciesID,
	})
	if err != nil {
		writeError(w, "failed to create group", err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupDTO(g))
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	var speciesID *string
	if s := r.URL.Query().Get("species_id"); s != "" && s != "all" {
		speciesID = &s
	}

	groups, err := h.svc.ListGroups(r.Context(), speciesID)
	if err != nil {
		writeError(w, "failed to list groups", err)
		return
	}

	out := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupDTO(g))
	}

	writeJSON(w, http.StatusOK, out)
}

func toGroupDTO(g *herd.Group) groupDTO {
	return groupDTO{
		ID:        g.ID,
		Name:      g.Name,
		SpeciesID: g.SpeciesID,
		CreatedAt: &g.CreatedAt,
	}
}

type createAnimalRequest struct {
	SpeciesID string   `json:"species_id"`
	GroupID   *string  `json:"group_id,omitempty"`
	Tag       string   `json:"tag"`
	Sex       herd.Sex `json:"sex"`
	BirthDate *string  `json:"birth_date,omitempty"`
}

func (h *Handler) createAnimal(w http.ResponseWriter, r *http.Request) {
	var req createAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := herd.CreateAnimalParams{
		SpeciesID: req.SpeciesID,
		GroupID:   req.GroupID,
		Tag:       req.Tag,
		Sex:       req.Sex,
	}

	if req.BirthDate != nil {
		t, err := time.Parse(time.DateOnly, *req.BirthDate)
		if err != nil {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params.BirthDate = &t
	}

	a, err := h.svc.CreateAnimal(r.Context(), params)
	if err != nil {
		writeError(w, "failed to create animal", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAnimalResponse(a))
}

func (h *Handler) listAnimals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := herd.AnimalFilter{}

	if s := q.Get("species_id"); s != "" && s != "all" {
		filter.SpeciesID = new(s)
	}

	if s := q.Get("group_id"); s != "" && s != "all" {
		filter.GroupID = new(s)
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(herd.Status(s))
	}

	animals, err := h.svc.ListAnimals(r.Context(), filter)
	if err != nil {
		writeError(w, "failed to list animals", err)
		return
	}

	out := make([]animalResponse, 0, len(animals))
	for _, a := range animals {
		out = append(out, toAnimalResponse(a))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getAnimal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.svc.GetAnimal(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get animal", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalResponse(a))
}

type updateStatusRequest struct {
	Status herd.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, "failed to update animal status", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, herd.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, herd.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, herd.ErrConflict):
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
