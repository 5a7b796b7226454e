package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/config"
	"github.com/ariebrainware/comorbidity-network/graph"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/pipeline"
	"github.com/ariebrainware/comorbidity-network/seed"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

// app holds every long-lived dependency built from the configuration.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *gorm.DB
	redis    *redis.Client
	graph    *graph.Client
	registry *prometheus.Registry
	cache    *util.ReadCache
	store    *store.Store
	runner   *pipeline.Runner
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	strategy, err := comorbidity.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	a.db, err = config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := model.AutoMigrate(a.db); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	a.redis, err = config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, continuing without rate limiting and run lock", "error", err)
		a.redis = nil
	}

	a.graph, err = graph.NewClient(ctx, cfg, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := pipeline.NewMetrics(a.registry)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a.cache = util.NewReadCache(cfg.CacheTTL)
	a.store = store.New(a.db, cfg.BatchSize, log)

	var locker pipeline.Locker
	if l := pipeline.NewRedisLocker(a.redis, cfg.RunLockTTL); l != nil {
		locker = l
	}

	a.runner = pipeline.NewRunner(pipeline.Options{
		DB:      a.db,
		Loader:  seed.NewLoader(a.db, cfg.BatchSize, log),
		Store:   a.store,
		Engine:  comorbidity.NewEngine(strategy, log),
		Graph:   graph.NewProjector(a.graph, cfg.BatchSize, log),
		Locker:  locker,
		Metrics: metrics,
		Cache:   a.cache,
		Log:     log,
	})

	log.Info("application ready",
		"db_driver", cfg.DBDriver,
		"strategy", strategy,
		"batch_size", cfg.BatchSize,
		"redis", a.redis != nil,
		"neo4j", a.graph != nil)
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.graph != nil {
		if err := a.graph.Close(ctx); err != nil {
			a.log.Warn("close neo4j", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
