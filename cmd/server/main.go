package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ayang007/flora-fauna/internal/app"
	"github.com/ayang007/flora-fauna/internal/consensus"
	"github.com/ayang007/flora-fauna/internal/moderation"
	"github.com/ayang007/flora-fauna/internal/platform/config"
	"github.com/ayang007/flora-fauna/internal/platform/logging"
	"github.com/ayang007/flora-fauna/internal/platform/version"
	"github.com/ayang007/flora-fauna/internal/postgres"
	"github.com/ayang007/flora-fauna/internal/redis"
	"github.com/ayang007/flora-fauna/internal/server"
	"github.com/ayang007/flora-fauna/internal/vote"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	build := version.Get()
	slog.Info("Application starting",
		"env", cfg.AppEnv, "port", cfg.Port,
		"version", build.Version, "commit", build.Commit)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	accountRepo := postgres.NewAccountRepo(pool)
	contentStore := redis.NewContentStore(redisClient)
	voteStore := redis.NewVoteStore(redisClient, clock)
	statsStore := redis.NewStatsStore(redisClient)
	consensusStore := redis.NewConsensusStore(redisClient)

	resolver := consensus.NewResolver(contentStore, consensusStore)
	engine := vote.NewEngine(contentStore, voteStore, accountRepo, resolver)
	overlay := moderation.NewOverlay(accountRepo, contentStore, consensusStore, resolver, clock)

	appSvc := app.NewService(accountRepo, contentStore, voteStore, statsStore, consensusStore, engine, overlay, clock)

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	srv := server.NewServer(cfg, appSvc, healthChecks)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
