package di

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"market_sync/internal/app/config"
	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/usecase"
	"market_sync/internal/platform/cache"
	"market_sync/internal/platform/metrics"
	infraredis "market_sync/internal/platform/redis"
	"market_sync/internal/shared/ratelimiter"
	"market_sync/internal/shared/waiter"
)

// App holds the wired components shared by every entrypoint.
type App struct {
	Config    *config.Config
	Log       *zap.SugaredLogger
	Registry  *prometheus.Registry
	Sync      *usecase.SyncUsecase
	Snapshots *usecase.SnapshotUsecase
	Redis     *redisv9.Client

	closers []func() error
}

// Options overrides components in tests.
type Options struct {
	Provider usecase.QuoteProvider
	Store    usecase.SnapshotStore
	Waiter   waiter.Waiter
}

// Build wires the application from cfg. A store that cannot be built
// because of missing credentials does not fail Build; the sync usecase
// reports it per invocation. Any other construction error is returned.
func Build(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, opts Options) (*App, error) {
	app := &App{Config: cfg, Log: log, Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(app.Registry)

	provider := opts.Provider
	if provider == nil {
		p, err := NewQuoteProvider(cfg.Provider, log)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	store := opts.Store
	if store == nil {
		s, err := NewSnapshotStore(cfg.Store, log)
		switch {
		case errors.Is(err, domain.ErrConfiguration):
			log.Warnw("snapshot store not configured; sync requests will fail", "error", err)
		case err != nil:
			return nil, err
		default:
			store = s
		}
	}

	if store != nil && cfg.Redis.Enabled() {
		rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, log)
		if err != nil {
			log.Warnw("Redis unavailable. Running without cache.", "error", err)
		} else {
			app.Redis = rdb
			app.closers = append(app.closers, rdb.Close)
			store = cache.NewCachingSnapshotRepository(rdb, cfg.Redis.TTL, store, "snapshots")
		}
	}

	wait := opts.Waiter
	if wait == nil {
		wait = waiter.Sleep
	}

	acquirerOpts := []usecase.AcquirerOption{
		usecase.WithRetryPolicy(cfg.Sync.MaxAttempts, cfg.Sync.BaseDelay),
		usecase.WithAcquirerWaiter(wait),
		usecase.WithAcquirerLogger(log),
		usecase.WithAcquirerMetrics(rec),
	}
	if cfg.Provider.RateLimit > 0 {
		// 1分あたりの呼び出し上限
		acquirerOpts = append(acquirerOpts, usecase.WithRateLimiter(
			ratelimiter.NewRateLimiter(cfg.Provider.RateLimit, time.Minute,
				ratelimiter.WithWaiter(wait),
				ratelimiter.WithLogger(log),
			),
		))
	}
	acquirer := usecase.NewAcquirer(provider, acquirerOpts...)

	// store が nil の場合は型付き nil を渡さないよう明示的に分岐する
	var repo usecase.SnapshotRepository
	var reader usecase.SnapshotReader
	if store != nil {
		repo, reader = store, store
	}

	app.Sync = usecase.NewSyncUsecase(acquirer, repo, cfg.Store.Credentials, cfg.Sync.Symbols,
		usecase.WithPaceDelay(cfg.Sync.PaceDelay),
		usecase.WithSyncWaiter(wait),
		usecase.WithSyncLogger(log),
		usecase.WithSyncMetrics(rec),
	)
	app.Snapshots = usecase.NewSnapshotUsecase(reader)
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
