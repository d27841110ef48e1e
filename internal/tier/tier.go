package tier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

var ErrUnknownTier = errors.New("unknown tier")

// Tier is a subscription level. Higher tiers include everything below them.
type Tier string

const (
	Free       Tier = "free"
	Premium    Tier = "premium"
	Enterprise Tier = "enterprise"
)

var rank = map[Tier]int{
	Free:       0,
	Premium:    1,
	Enterprise: 2,
}

func Parse(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rank[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}

	return t, nil
}

// Includes reports whether t grants access to features of required.
func (t Tier) Includes(required Tier) bool {
	return rank[t] >= rank[required]
}

// Provider answers which tier the current caller is on. There is no billing
// backend yet, so every caller gets the configured tier.
type Provider struct {
	fixed Tier
}

func NewProvider(fixed Tier) *Provider {
	return &Provider{fixed: fixed}
}

func (p *Provider) Tier(ctx context.Context) Tier {
	return p.fixed
}

// Lookup is satisfied by *Provider.
type Lookup interface {
	Tier(ctx context.Context) Tier
}

// RequireTier rejects requests from callers below required with 403.
func RequireTier(lookup Lookup, required Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := lookup.Tier(r.Context())
			if !current.Includes(required) {
				slog.Debug("tier too low", "tier", current, "required", required, "path", r.URL.Path)
				http.Error(w, fmt.Sprintf("%s tier required", required), http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
