package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	"github.com/riskibarqy/matchday-engine/internal/domain/userstats"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/postgres"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// stores holds one implementation per repository. Every field stays a nil
// interface under STORE_DRIVER=none so the engines report skips.
type stores struct {
	matches     match.Repository
	predictions prediction.Repository
	stats       userstats.Repository
	blacklist   blacklist.Repository
	jobRuns     jobscheduler.Repository
	db          *sqlx.DB
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		return stores{
			matches:     postgres.NewMatchRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			stats:       postgres.NewUserStatsRepository(db),
			blacklist:   postgres.NewBlacklistRepository(db),
			jobRuns:     postgres.NewJobRunRepository(db),
			db:          db,
		}, nil
	case config.StoreDriverMemory:
		return stores{
			matches:     memory.NewMatchRepository(),
			predictions: memory.NewPredictionRepository(),
			stats:       memory.NewUserStatsRepository(),
			blacklist:   memory.NewBlacklistRepository(),
			jobRuns:     memory.NewJobRunRepository(),
		}, nil
	default:
		return stores{}, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgres.NormalizeDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(postgres.DatabaseName(dsn)),
		otelsql.WithQueryFormatter(postgres.TraceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s stores) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
