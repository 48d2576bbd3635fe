// Fundlens server entry point.
//
// Startup order:
//  1. Load configuration from environment (.env supported)
//  2. Initialize structured logging
//  3. Open and migrate the catalog and cache databases
//  4. Wire repositories, clients and services
//  5. Register scheduled jobs and start the scheduler
//  6. Start the HTTP server and wait for SIGINT/SIGTERM
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/fundlens/internal/clientdata"
	"github.com/aristath/fundlens/internal/clients/eastmoney"
	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/database"
	"github.com/aristath/fundlens/internal/modules/funds"
	fundshandlers "github.com/aristath/fundlens/internal/modules/funds/handlers"
	"github.com/aristath/fundlens/internal/modules/recommendation"
	recommendationhandlers "github.com/aristath/fundlens/internal/modules/recommendation/handlers"
	"github.com/aristath/fundlens/internal/modules/risk"
	riskhandlers "github.com/aristath/fundlens/internal/modules/risk/handlers"
	"github.com/aristath/fundlens/internal/modules/scoring"
	scoringhandlers "github.com/aristath/fundlens/internal/modules/scoring/handlers"
	"github.com/aristath/fundlens/internal/scheduler"
	"github.com/aristath/fundlens/internal/server"
	"github.com/aristath/fundlens/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Fundlens")

	catalogDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "catalog.db"),
		Profile: database.ProfileStandard,
		Name:    "catalog",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open catalog database")
	}
	defer catalogDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{catalogDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Repositories and clients
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	eastmoneyClient := eastmoney.NewClient(cfg.SearchBaseURL, cfg.EstimateBaseURL, cacheRepo, log)
	fundRepo := funds.NewRepository(catalogDB.Conn(), log)
	historyRepo := recommendation.NewRepository(cacheDB.Conn(), log)

	// Services
	fundService := funds.NewService(fundRepo, eastmoneyClient, cacheRepo, cfg.CandidatesPerType, log)

	scorer, err := scoring.NewScorer(scoring.DefaultWeights(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scorer")
	}

	analyzer := risk.NewAnalyzer(log)
	recommender := recommendation.NewRecommender(scorer, fundService, log)

	// Scheduled jobs
	sched := scheduler.New(log)
	catalogSyncJob := scheduler.NewCatalogSyncJob(fundService, log)
	cleanupJob := clientdata.NewCleanupJob(cacheRepo, log)

	if err := sched.AddJob(cfg.CatalogSyncSchedule, catalogSyncJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule catalog sync")
	}
	if err := sched.AddJob("0 0 * * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cache cleanup")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		CatalogDB: catalogDB,
		CacheDB:   cacheDB,

		FundsHandlers:          fundshandlers.NewHandler(fundService, log),
		ScoringHandlers:        scoringhandlers.NewHandler(scorer, log),
		RiskHandlers:           riskhandlers.NewHandler(analyzer, log),
		RecommendationHandlers: recommendationhandlers.NewHandler(recommender, historyRepo, log),

		Scheduler:      sched,
		CatalogSyncJob: catalogSyncJob,
		CleanupJob:     cleanupJob,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
