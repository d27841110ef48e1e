package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/config"
	"github.com/MrJamesThe3rd/herdbook/internal/database"
	"github.com/MrJamesThe3rd/herdbook/internal/export"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	financeStore "github.com/MrJamesThe3rd/herdbook/internal/finance/store"
	"github.com/MrJamesThe3rd/herdbook/internal/herd"
	herdStore "github.com/MrJamesThe3rd/herdbook/internal/herd/store"
	herdbookHttp "github.com/MrJamesThe3rd/herdbook/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/herdbook/internal/http/analytics"
	exportHandler "github.com/MrJamesThe3rd/herdbook/internal/http/export"
	financeHandler "github.com/MrJamesThe3rd/herdbook/internal/http/finance"
	herdHandler "github.com/MrJamesThe3rd/herdbook/internal/http/herd"
	importHandler "github.com/MrJamesThe3rd/herdbook/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/herdbook/internal/http/matching"
	productionHandler "github.com/MrJamesThe3rd/herdbook/internal/http/production"
	reportHandler "github.com/MrJamesThe3rd/herdbook/internal/http/report"
	"github.com/MrJamesThe3rd/herdbook/internal/importer"
	"github.com/MrJamesThe3rd/herdbook/internal/importer/ledger"
	"github.com/MrJamesThe3rd/herdbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/herdbook/internal/matching/store"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
	productionStore "github.com/MrJamesThe3rd/herdbook/internal/production/store"
	"github.com/MrJamesThe3rd/herdbook/internal/report"
	reportStore "github.com/MrJamesThe3rd/herdbook/internal/report/store"
	"github.com/MrJamesThe3rd/herdbook/internal/tier"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	currentTier, err := tier.Parse(cfg.Tier)
	if err != nil {
		slog.Error("invalid tier", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		herdService       = herd.NewService(herdStore.New(db))
		financeService    = finance.NewService(financeStore.New(db), cfg.Finance.BaseCurrency)
		productionService = production.NewService(productionStore.New(db))
		matchingService   = matching.NewService(matchingStore.New(db))
		importService     = importer.NewService(ledger.NewParser(), matchingService)
		exportService     = export.NewService(financeService, productionService)
		analyticsService  = analytics.NewService(database.NewQuerier(db))
		reportService     = report.NewService(reportStore.New(db), analyticsService, cfg.Reports.Lease)
		tiers             = tier.NewProvider(currentTier)
	)

	scheduler := report.NewScheduler(reportService, cfg.Reports.BatchSize)
	if err := scheduler.Schedule(cfg.Reports.Schedule); err != nil {
		slog.Error("failed to schedule report jobs", "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	defer scheduler.Stop()

	router := herdbookHttp.New(
		herdbookHttp.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
			Tiers:          tiers,
		},
		herdbookHttp.Handlers{
			Analytics:  analyticsHandler.NewHandler(analyticsService),
			Finance:    financeHandler.NewHandler(financeService),
			Herd:       herdHandler.NewHandler(herdService),
			Production: productionHandler.NewHandler(productionService),
			Import:     importHandler.NewHandler(importService, financeService),
			Matching:   matchingHandler.NewHandler(matchingService),
			Export:     exportHandler.NewHandler(exportService),
			Reports:    reportHandler.NewHandler(reportService, tiers),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "tier", currentTier)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
