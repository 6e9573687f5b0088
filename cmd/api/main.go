package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/reactmeals-backend/api/routes"
	"github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	"github.com/angelmondragon/reactmeals-backend/pkg/config"
	"github.com/angelmondragon/reactmeals-backend/pkg/db"
	"github.com/angelmondragon/reactmeals-backend/pkg/instance"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
	"github.com/angelmondragon/reactmeals-backend/pkg/metrics"
	"github.com/angelmondragon/reactmeals-backend/pkg/migrate"
	"github.com/angelmondragon/reactmeals-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var (
		dbClient    *db.Client
		redisClient *redis.Client
		dbPinger    db.Pinger
		redisPinger redis.Pinger
	)

	if cfg.DB.Enabled() {
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		dbPinger = dbClient

		if err := migrate.MaybeAutoRun(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run migrations", err)
			os.Exit(1)
		}
	}

	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisPinger = redisClient
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	source, err := buildSource(cfg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build meals source", err)
		os.Exit(1)
	}

	var cache *meals.Cache
	if redisClient != nil {
		cache = meals.NewCache(redisClient, cfg.Meals.CacheTTL)
	}

	mealsService, err := meals.NewService(meals.ServiceParams{
		Source:   source,
		Cache:    cache,
		Logger:   logg,
		Observer: cartMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create meals service", err)
		os.Exit(1)
	}

	var sessions *cart.Registry
	sessions = cart.NewRegistry(cart.RegistryOptions{
		IdleTTL:  cfg.Cart.SessionIdleTTL,
		Recorder: cartMetrics,
		Jobs:     jobMetrics,
		OnEvict: func(string) {
			cartMetrics.SetSessions(sessions.Len())
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, cfg.Cart.SweepInterval)
	go reportSessions(ctx, sessions, cartMetrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"meals_source": source.Name(),
		"instance":     instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbPinger, redisPinger, mealsService, sessions, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	if dbClient != nil {
		err = multierr.Append(err, dbClient.Close())
	}
	if err != nil {
		logg.Error(shutdownCtx, "error during shutdown", err)
		os.Exit(1)
	}
}

func buildSource(cfg *config.Config, dbClient *db.Client) (meals.Source, error) {
	switch cfg.Meals.Source {
	case config.MealsSourceDatabase:
		if dbClient == nil {
			return nil, errors.New("database meals source requires a database connection")
		}
		return meals.NewRepository(dbClient.DB()), nil
	default:
		src, err := meals.NewHTTPSource(cfg.Meals.RemoteURL, meals.WithTimeout(cfg.Meals.FetchTimeout))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// reportSessions keeps the sessions gauge current as carts are created.
func reportSessions(ctx context.Context, sessions *cart.Registry, m *metrics.CartMetrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetSessions(sessions.Len())
		}
	}
}
