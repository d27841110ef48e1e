package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

type transactionResponse struct {
	ID             uuid.UUID         `json:"id"`
	SpeciesID      *string           `json:"species_id,omitempty"`
	GroupID        *string           `json:"group_id,omitempty"`
	Category       *categoryResponse `json:"category,omitempty"`
	Type           finance.Type      `json:"type"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	BaseAmount     decimal.Decimal   `json:"base_amount"`
	Description    string            `json:"description"`
	RawDescription string            `json:"raw_description,omitempty"`
	Date           string            `json:"date"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
}

type categoryResponse struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Type finance.Type `json:"type,omitempty"`
}

type rateResponse struct {
	Currency   string          `json:"currency"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	AsOf       string          `json:"as_of"`
}

func toResponse(tx *finance.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:             tx.ID,
		SpeciesID:      tx.SpeciesID,
		GroupID:        tx.GroupID,
		Type:           tx.Type,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		BaseAmount:     tx.BaseAmount,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date.Format(time.DateOnly),
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}

	switch {
	case tx.Category != nil:
		resp.Category = new(toCategoryResponse(tx.Category))
	case tx.CategoryID != nil:
		resp.Category = &categoryResponse{ID: *tx.CategoryID}
	}

	return resp
}

func toResponseList(txs []*finance.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toResponse(tx))
	}

	return out
}

func toCategoryResponse(c *finance.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Type: c.Type}
}

func toRateResponse(r *finance.FxRate) rateResponse {
	return rateResponse{
		Currency:   r.Currency,
		RateToBase: r.RateToBase,
		AsOf:       r.AsOf.Format(time.DateOnly),
	}
}
