package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	"github.com/angelmondragon/reactmeals-backend/pkg/config"
	"github.com/angelmondragon/reactmeals-backend/pkg/db"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
	"github.com/angelmondragon/reactmeals-backend/pkg/metrics"
	"github.com/angelmondragon/reactmeals-backend/pkg/migrate"
	"github.com/angelmondragon/reactmeals-backend/pkg/redis"
)

const syncJob = "meals_sync"

// meals-sync imports the remote meal catalog into the meals table so the api
// can serve it with REACTMEALS_MEALS_SOURCE=database.
func main() {
	allowEmpty := flag.Bool("allow-empty", false, "accept an empty remote catalog and clear the meals table")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "meals-sync"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "meals-sync",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	remoteURL := strings.TrimSpace(cfg.Meals.RemoteURL)
	if remoteURL == "" || !cfg.DB.Enabled() {
		logg.Error(context.Background(), "meals sync needs a remote url and a database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeAutoRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	var cache *meals.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cache = meals.NewCache(redisClient, cfg.Meals.CacheTTL)
	}

	source, err := meals.NewHTTPSource(remoteURL, meals.WithTimeout(cfg.Meals.FetchTimeout))
	if err != nil {
		logg.Error(context.Background(), "failed to build meals source", err)
		os.Exit(1)
	}

	jobs := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "job": syncJob})

	var result meals.SyncResult
	err = jobs.Track(syncJob, func() error {
		var syncErr error
		result, syncErr = meals.Sync(ctx, source, meals.NewRepository(dbClient.DB()), dbClient, cache, meals.SyncOptions{AllowEmpty: *allowEmpty})
		return syncErr
	})
	if err != nil {
		logg.Error(ctx, "meals sync failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "imported", result.Imported), "meals sync completed")
}
