package importcsv

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
	"github.com/MrJamesThe3rd/herdbook/internal/importer"
	"github.com/MrJamesThe3rd/herdbook/internal/importer/ledger"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	financeSvc *finance.Service
}

func NewHandler(importSvc *importer.Service, financeSvc *finance.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		financeSvc: financeSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	Type           finance.Type    `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description,omitempty"`
	Date           string          `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	SpeciesID      *string         `json:"species_id,omitempty"`
	GroupID        *string         `json:"group_id,omitempty"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	Type           finance.Type    `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Date           string          `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	result, err := h.financeSvc.ImportBatch(r.Context(), params)
	if err != nil {
		writeError(w, "failed to import transactions", err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		writeJSON(w, http.StatusConflict, resp)

		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]finance.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		date, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params = append(params, finance.CreateParams{
			SpeciesID:      p.SpeciesID,
			GroupID:        p.GroupID,
			CategoryID:     p.CategoryID,
			Type:           p.Type,
			Amount:         p.Amount,
			Currency:       p.Currency,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Date:           date,
		})
	}

	txs, err := h.financeSvc.CreateBatch(r.Context(), params)
	if err != nil {
		writeError(w, "failed to create transactions", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*finance.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *finance.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		CategoryID:     tx.CategoryID,
		Type:           tx.Type,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		BaseAmount:     tx.BaseAmount,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date.Format(time.DateOnly),
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p finance.CreateParams) createParamsDTO {
	return createParamsDTO{
		SpeciesID:      p.SpeciesID,
		GroupID:        p.GroupID,
		CategoryID:     p.CategoryID,
		Type:           p.Type,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date.Format(time.DateOnly),
	}
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, finance.ErrInvalidTransaction), errors.Is(err, finance.ErrNoRate):
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
