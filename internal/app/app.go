package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-engine/external/apisports"
	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/liveboard"
	cacherepo "github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday-engine/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-engine/internal/interfaces/scheduler"
	"github.com/riskibarqy/matchday-engine/internal/observability"
	"github.com/riskibarqy/matchday-engine/internal/platform/cache"
	"github.com/riskibarqy/matchday-engine/internal/platform/id"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/platform/resilience"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

// App is the assembled service: the HTTP server, the job runner and the
// optional scheduler that drives it.
type App struct {
	Server    *http.Server
	Runner    *usecase.JobRunner
	Scheduler *scheduler.Scheduler
	Metrics   *observability.Metrics

	stores stores
	redis  *redis.Client
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("store configured", "driver", cfg.StoreDriver)

	a := &App{
		Metrics: observability.NewMetrics(),
		stores:  st,
		logger:  logger,
	}

	var board usecase.LiveBoard
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, live board reads will fall back to the store", "addr", cfg.RedisAddr, "error", err)
		}
		board = liveboard.NewRedisBoard(a.redis, cfg.LiveBoardTTL, logger)
	}

	static, err := usecase.ParseStaticBlacklist(cfg.MatchBlacklist)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("parse MATCH_BLACKLIST: %w", err)
	}
	blacklistSvc := usecase.NewBlacklistService(static, st.blacklist, cache.NewStore[blacklist.Set](cfg.BlacklistRefresh), logger)

	rules := prediction.DefaultRules()
	if len(cfg.BigLeagues) > 0 {
		rules.BigLeagues = cfg.BigLeagues
	}

	engines := make([]usecase.SportEngines, 0, 2)
	for _, provider := range newProviders(cfg, logger) {
		engines = append(engines, usecase.SportEngines{
			Reconciliation: usecase.NewReconciliationService(
				provider, st.matches, blacklistSvc, board, a.Metrics,
				usecase.ReconciliationConfig{Location: cfg.ProviderTimezone},
				logger,
			),
			Grading: usecase.NewGradingService(
				provider, st.predictions, st.stats, a.Metrics,
				usecase.GradingConfig{Rules: rules, InterMatchDelay: cfg.GradingInterMatchDelay},
				logger,
			),
		})
		logger.Info("sport engines enabled", "sport", string(provider.Sport()))
	}

	a.Runner = usecase.NewJobRunner(
		engines,
		blacklistSvc,
		st.jobRuns,
		usecase.NewJobState(),
		id.NewTimeOrdered(),
		a.Metrics,
		usecase.JobRunnerConfig{
			Workers:      cfg.JobWorkers,
			StuckMaxLive: cfg.StuckMaxLive,
			Retention:    cfg.MatchRetention,
		},
		logger,
	)

	// Public reads go through the TTL cache; the engines always see the store.
	queryMatches := st.matches
	if queryMatches != nil && cfg.CacheEnabled {
		queryMatches = cacherepo.NewMatchRepository(queryMatches, cfg.CacheTTL)
	}
	query := usecase.NewMatchQueryService(queryMatches, board, cfg.ProviderTimezone, logger)

	handler := httpapi.NewHandler(query, a.Runner, blacklistSvc, st.jobRuns, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.SchedulerEnabled {
		a.Scheduler, err = scheduler.New(a.Runner, scheduler.Config{
			SyncLiveInterval:  cfg.JobSyncLiveInterval,
			SyncTodayInterval: cfg.JobSyncTodayInterval,
			GradeInterval:     cfg.JobGradeInterval,
			BlacklistInterval: cfg.BlacklistRefresh,
			FixStuckHour:      cfg.JobFixStuckHour,
			FixStuckMinute:    cfg.JobFixStuckMinute,
			Location:          cfg.ProviderTimezone,
			JobTimeout:        cfg.JobTimeout,
		}, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	} else {
		logger.Info("scheduler disabled", "reason", "SCHEDULER_ENABLED=false")
	}

	return a, nil
}

func newProviders(cfg config.Config, logger *logging.Logger) []usecase.MatchProvider {
	client := func(p config.ProviderConfig) *apisports.Client {
		return apisports.NewClient(apisports.ClientConfig{
			BaseURL:    p.BaseURL,
			APIKey:     p.APIKey,
			Timeout:    cfg.ProviderTimeout,
			MaxRetries: cfg.ProviderMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ProviderCircuitEnabled,
				FailureThreshold: cfg.ProviderCircuitFailureCount,
				OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
			},
		})
	}

	out := make([]usecase.MatchProvider, 0, 2)
	if cfg.Football.Enabled {
		out = append(out, apisports.NewFootballProvider(client(cfg.Football), cfg.ProviderTimezone))
	}
	if cfg.Basketball.Enabled {
		out = append(out, apisports.NewBasketballProvider(client(cfg.Basketball), cfg.ProviderTimezone))
	}
	if len(out) == 0 {
		logger.Warn("no sport providers enabled", "sports", []match.Sport{match.SportFootball, match.SportBasketball})
	}
	return out
}

// Close releases the scheduler and the store connections. It does not stop
// the HTTP server.
func (a *App) Close() error {
	var errs []error
	if a.Scheduler != nil {
		if err := a.Scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown scheduler: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := a.stores.close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
