package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"creditd/internal/api"
	"creditd/internal/auth"
	"creditd/internal/config"
	"creditd/internal/db"
	"creditd/internal/logger"
	"creditd/internal/metrics"
	"creditd/internal/ratelimit"
	repo "creditd/internal/repository"
	"creditd/internal/repository/memory"
	"creditd/internal/repository/postgres"
	"creditd/internal/services"
	"creditd/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded")
	}

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	var (
		records   repo.Records
		auditLogs repo.AuditLogs
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if os.Getenv("APP_MIGRATE") == "true" {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}

		repos := postgres.NewRepositories(pool)
		records, auditLogs = repos.Records, repos.AuditLogs
		log.Info("using postgres store")
	} else {
		records, auditLogs = memory.NewRecords(), memory.NewAuditLogs()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Redis is optional; it only backs admission stats.
	var stats ratelimit.Stats
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, stats disabled", "err", err)
		} else {
			stats = ratelimit.NewRedisStats(rdb)
			defer rdb.Close()
			log.Info("redis connected")
		}
	}

	if cfg.APIKey == "" {
		log.Warn("API_KEY not set, all mutations will be rejected")
	}

	wp := worker.NewPool(4)
	defer wp.Stop()

	ledger := services.NewLedgerService(records, auditLogs, wp)
	keys := auth.NewKeyring(cfg.APIKey)

	gov := ratelimit.NewGovernor(ratelimit.Config{
		Window:       cfg.RateWindow,
		Max:          cfg.RateMax,
		MinGap:       cfg.RateMinGap,
		CleanupEvery: 2 * time.Minute,
	})
	gov.StartJanitor(ctx)

	r := api.NewRouter(cfg, ledger, keys, gov, stats)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
