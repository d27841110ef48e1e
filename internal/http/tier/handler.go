package tier

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/herdbook/internal/tier"
)

type Handler struct {
	tiers tier.Lookup
}

func NewHandler(tiers tier.Lookup) *Handler {
	return &Handler{tiers: tiers}
}

type tierResponse struct {
	Tier tier.Tier `json:"tier"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tierResponse{Tier: h.tiers.Tier(r.Context())}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
