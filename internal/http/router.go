package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/herdbook/internal/http/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/http/export"
	"github.com/MrJamesThe3rd/herdbook/internal/http/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/http/herd"
	"github.com/MrJamesThe3rd/herdbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/herdbook/internal/http/matching"
	"github.com/MrJamesThe3rd/herdbook/internal/http/production"
	"github.com/MrJamesThe3rd/herdbook/internal/http/report"
	tierHandler "github.com/MrJamesThe3rd/herdbook/internal/http/tier"
	"github.com/MrJamesThe3rd/herdbook/internal/tier"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
	Tiers          tier.Lookup
}

type Handlers struct {
	Analytics  *analytics.Handler
	Finance    *finance.Handler
	Herd       *herd.Handler
	Production *production.Handler
	Import     *importcsv.Handler
	Matching   *matching.Handler
	Export     *export.Handler
	Reports    *report.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	premium := tier.RequireTier(opts.Tiers, tier.Premium)

	router.Route("/v1", func(r chi.Router) {
		r.Get("/tier", tierHandler.NewHandler(opts.Tiers).Get)

		r.Route("/analytics", func(r chi.Router) {
			h.Analytics.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(premium)
				h.Analytics.PremiumRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/species", h.Herd.SpeciesRoutes)
			r.Route("/groups", h.Herd.GroupRoutes)
			r.Route("/animals", h.Herd.AnimalRoutes)
			r.Route("/transactions", h.Finance.Routes)
			r.Route("/categories", h.Finance.CategoryRoutes)
			r.Route("/fx-rates", h.Finance.RateRoutes)
			r.Route("/production", h.Production.Routes)
			r.Route("/category-mappings", h.Matching.Routes)
			r.Route("/reports/jobs", h.Reports.Routes)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
