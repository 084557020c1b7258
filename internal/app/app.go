package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/rosterwire/contest-engine/external/espn"
	"github.com/rosterwire/contest-engine/external/mlbstats"
	"github.com/rosterwire/contest-engine/internal/config"
	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/identity"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/season"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/cache"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/postgres"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/retrying"
	"github.com/rosterwire/contest-engine/internal/infrastructure/secrets"
	"github.com/rosterwire/contest-engine/internal/interfaces/httpapi"
	basecache "github.com/rosterwire/contest-engine/internal/platform/cache"
	idgen "github.com/rosterwire/contest-engine/internal/platform/id"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
	"github.com/rosterwire/contest-engine/internal/platform/resilience"
	"github.com/rosterwire/contest-engine/internal/platform/retry"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

type repositories struct {
	leagues    league.Repository
	contests   contest.Repository
	identities identity.Repository
	gamelogs   gamelog.Repository
	snapshots  snapshot.Repository
}

// NewHTTPServer assembles the full service: database, repository
// decorators, provider clients, services and the HTTP router. The returned
// cleanup closes the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger, httpLogger *slog.Logger) (*http.Server, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	repos := buildRepositories(cfg, db)

	cipher, err := secrets.NewCipher(cfg.EncryptionKey)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("build credential cipher: %w", err)
	}

	lineup := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Season:     cfg.SeasonYear,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})
	stats := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:    cfg.MLBStatsBaseURL,
		Timeout:    cfg.MLBStatsTimeout,
		MaxRetries: cfg.MLBStatsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.MLBStatsCircuitEnabled,
			FailureThreshold: cfg.MLBStatsCircuitFailureCount,
			OpenTimeout:      cfg.MLBStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.MLBStatsCircuitHalfOpenMaxReq,
		},
	})

	seasonCal := season.Default(cfg.SeasonYear)
	ids := idgen.NewRandomGenerator()

	rosterSvc := usecase.NewRosterService(lineup, seasonCal, cfg.RosterWorkerCount, logger)
	identitySvc := usecase.NewIdentityService(repos.identities, stats, cfg.SeasonYear, logger)
	gamelogSvc := usecase.NewGameLogService(repos.gamelogs, stats, seasonCal, nil, logger)
	aggregator := usecase.NewAggregatorService(rosterSvc, identitySvc, gamelogSvc, seasonCal, logger)

	contestSvc := usecase.NewContestService(repos.contests, repos.leagues, repos.snapshots, aggregator, cipher, ids, logger)
	leagueSvc := usecase.NewLeagueService(repos.leagues, repos.contests, repos.snapshots, lineup, cipher, ids, logger)

	handler := httpapi.NewHandler(leagueSvc, contestSvc, httpLogger)
	router := httpapi.NewRouter(handler, httpLogger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// buildRepositories stacks the storage decorators. Retrying sits directly
// over the driver so transient failures are absorbed before any caching,
// and the cache layer only ever sees settled results.
func buildRepositories(cfg config.Config, db *sqlx.DB) repositories {
	policy := retry.Policy{Attempts: cfg.DBRetryAttempts, Backoff: cfg.DBRetryBackoff}

	repos := repositories{
		leagues:    retrying.NewLeagueRepository(postgres.NewLeagueRepository(db), policy),
		contests:   retrying.NewContestRepository(postgres.NewContestRepository(db), policy),
		identities: retrying.NewIdentityRepository(postgres.NewIdentityRepository(db), policy),
		gamelogs:   retrying.NewGameLogRepository(postgres.NewGameLogRepository(db), policy),
		snapshots:  retrying.NewSnapshotRepository(postgres.NewSnapshotRepository(db), policy),
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cache.NewLeagueRepository(repos.leagues, store)
		repos.contests = cache.NewContestRepository(repos.contests, store)
		repos.identities = cache.NewIdentityRepository(repos.identities, store)
		repos.snapshots = cache.NewSnapshotRepository(repos.snapshots, store)
	}

	return repos
}
