package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/riskibarqy/fantasy-cricket/external/scraper"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/identity"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	cacherepo "github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/cache"
	postgresrepo "github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/scheduler"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

// Services bundles the use-case layer entrypoints a worker or CLI needs:
// the mutation surface (TeamService, LeagueLifecycleService) and the
// recurring ingestion pipeline (IngestionOrchestratorService), plus the
// scheduler that drives the latter on cfg.ScrapeSchedule.
type Services struct {
	Team        *usecase.TeamService
	Lifecycle   *usecase.LeagueLifecycleService
	Drift       *usecase.DriftService
	Aggregator  *usecase.AggregatorService
	TeamScoring *usecase.TeamScoringService
	Ingestion   *usecase.IngestionOrchestratorService
	Scheduler   *scheduler.Scheduler
}

// Build opens the postgres connection, wires every repository and
// use-case service against it, and schedules the ingestion orchestrator on
// cfg.ScrapeSchedule. The returned close func releases the database
// connection and stops the scheduler.
func Build(cfg config.Config, logger *logging.Logger) (*Services, func() error, error) {
	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, true))
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	leagueRepo := postgresrepo.NewLeagueRepository(db)
	playerRepo := postgresrepo.NewPlayerRepository(db)
	teamRepo := postgresrepo.NewFantasyTeamRepository(db)
	performanceRepo := postgresrepo.NewPerformanceRepository(db)
	rosterRepo := postgresrepo.NewRosterRepository(db)
	rulesetRepo := cacherepo.NewRulesetRepository(postgresrepo.NewRulesetRepository(db), cache.NewStore(5*time.Minute))
	runRepo := postgresrepo.NewJobSchedulerRepository(db)
	performanceTx := postgresrepo.NewTransactor(db)

	locks := league.NewLockRegistry()
	idGenerator := idgen.NewRandomGenerator()

	teamSvc := usecase.NewTeamService(leagueRepo, playerRepo, teamRepo, locks, idGenerator, logger)
	lifecycleSvc := usecase.NewLeagueLifecycleService(leagueRepo, teamRepo, playerRepo, locks, logger)
	driftSvc := usecase.NewDriftService(leagueRepo, playerRepo, locks, cfg.DriftRate, cfg.MultiplierMin, cfg.MultiplierMax, logger)
	aggregatorSvc := usecase.NewAggregatorService(performanceRepo, playerRepo, rulesetRepo, performanceTx, logger)
	teamScoringSvc := usecase.NewTeamScoringService(leagueRepo, performanceRepo, rulesetRepo, playerRepo)

	scraperClient := scraper.NewClient(scraper.ClientConfig{
		BaseURL:    cfg.ScraperBaseURL,
		Token:      cfg.ScraperToken,
		Timeout:    cfg.ScraperTimeout,
		MaxRetries: cfg.IngestionMaxRetries,
		Logger:     slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScraperCircuitEnabled,
			FailureThreshold: cfg.ScraperCircuitFailureCount,
			OpenTimeout:      cfg.ScraperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScraperCircuitHalfOpenMaxReq,
		},
	})

	matcher := identity.CompositeMatcher{Threshold: cfg.FuzzyMatchThreshold}

	ingestionSvc := usecase.NewIngestionOrchestratorService(
		scraperClient,
		matcher,
		rosterRepo,
		playerRepo,
		leagueRepo,
		aggregatorSvc,
		driftSvc,
		runRepo,
		idGenerator,
		usecase.IngestionOrchestratorConfig{
			Clubs:          cfg.ConfiguredClubs,
			MaxWorkers:     cfg.IngestionMaxWorkers,
			RulesetVersion: cfg.ScoringRulesetVersion,
		},
		logger,
	)

	sched := scheduler.New(logger)
	if err := sched.AddCron("ingestion-sweep", cfg.ScrapeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ScrapeInterval)
		defer cancel()
		since := time.Now().Add(-cfg.ScrapeInterval)
		if _, err := ingestionSvc.Run(ctx, since, "scheduled"); err != nil {
			logger.Error("scheduled ingestion run failed", "error", err)
		}
	}); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("schedule ingestion sweep: %w", err)
	}
	sched.Start()

	closeFn := func() error {
		sched.Stop()
		return db.Close()
	}

	return &Services{
		Team:        teamSvc,
		Lifecycle:   lifecycleSvc,
		Drift:       driftSvc,
		Aggregator:  aggregatorSvc,
		TeamScoring: teamScoringSvc,
		Ingestion:   ingestionSvc,
		Scheduler:   sched,
	}, closeFn, nil
}
