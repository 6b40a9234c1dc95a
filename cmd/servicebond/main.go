// Command servicebond serves the shop administration API and the per-shop
// sub-sites.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/servicebond/migrations"
	"github.com/dmitrymomot/servicebond/pkg/config"
	"github.com/dmitrymomot/servicebond/pkg/environment"
	"github.com/dmitrymomot/servicebond/pkg/httpserver"
	"github.com/dmitrymomot/servicebond/pkg/logger"
	"github.com/dmitrymomot/servicebond/pkg/pg"
	"github.com/dmitrymomot/servicebond/pkg/querylog"
	"github.com/dmitrymomot/servicebond/pkg/redis"
	"github.com/dmitrymomot/servicebond/pkg/requestid"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/pkg/uiversion"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(environment.Parse(cfg.AppEnv), cfg.AppName),
		logger.WithDebug(cfg.Debug),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	d := deps{cfg: cfg, log: log, queryOut: os.Stdout}

	switch cfg.StorageDriver {
	case StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		d.store = administration.NewMemoryStorage()
	case StoragePostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pgCfg, pg.WithTracer(querylog.Tracer{}))
		if err != nil {
			return err
		}
		defer pool.Close()
		if pgCfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, migrations.Dir, log); err != nil {
				return err
			}
		}
		d.store = administration.NewPgStorage(pool)
		d.checks = append(d.checks, pg.Healthcheck(pool))
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	switch cfg.TenantCacheDriver {
	case CacheMemory:
		d.tenantCache = tenant.NewMemoryCache(cfg.TenantCacheSize)
	case CacheRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		d.tenantCache = tenant.NewRedisCache(client, cfg.TenantCachePrefix)
		d.checks = append(d.checks, redis.Healthcheck(client))
	case CacheNone:
		d.tenantCache = tenant.NewNoOpCache()
	default:
		return fmt.Errorf("unknown tenant cache driver %q", cfg.TenantCacheDriver)
	}
	defer func() {
		if err := d.tenantCache.Close(); err != nil {
			log.Error("failed to close tenant cache", logger.Error(err))
		}
	}()

	if cfg.UIPackageJSON != "" {
		d.ui = uiversion.NewSource(cfg.UIPackageJSON)
	}

	h, err := newHandler(d)
	if err != nil {
		return err
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	log.Info("starting server",
		slog.String("addr", httpCfg.Addr),
		slog.String("storage", cfg.StorageDriver),
		slog.String("tenant_cache", cfg.TenantCacheDriver),
		slog.Bool("tenant_fail_closed", cfg.TenantFailClosed),
	)
	return httpserver.New(httpCfg, log).Run(ctx, h)
}
