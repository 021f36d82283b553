package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/podsync/podsync/config"
	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/notify"
	"github.com/podsync/podsync/internal/orders"
	"github.com/podsync/podsync/internal/registry"
	"github.com/podsync/podsync/internal/scheduler"
	"github.com/podsync/podsync/pkg/contracts"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.Server.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()
	logger := logging.L()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	reg := buildRegistry(ctx, cfg, logger)
	if reg.Count() == 0 {
		logger.Fatal("no providers configured, set at least one vendor API key")
	}
	logger.Info("providers registered", zap.Int("count", reg.Count()))

	notifier := notify.NewClient(notify.Config{
		URL:     cfg.Webhook.URL,
		Timeout: cfg.Webhook.Timeout,
	})
	if notifier.IsEnabled() {
		logger.Info("webhook notifications enabled")
	}

	sched := scheduler.NewScheduler(db, redisClient, reg,
		cfg.Sync.Interval, cfg.Sync.JitterSeconds, cfg.Sync.CacheTTL)
	sched.Writer().SetNotifier(notifier)

	if err := sched.Start(ctx); err != nil {
		logger.Fatal("start scheduler", zap.Error(err))
	}

	tracker := orders.NewTracker(db, redisClient, reg, cfg.Sync.OrderPoll)
	tracker.SetNotifier(notifier)
	tracker.Start(ctx)

	metricsServer := startMetricsServer(cfg.Server.MetricsPort, logger)

	logger.Info("podsync started",
		zap.Duration("sync_interval", cfg.Sync.Interval),
		zap.Duration("order_poll", cfg.Sync.OrderPoll))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop()
	tracker.Stop()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", zap.Error(err))
	}

	logger.Info("podsync stopped")
}

// buildRegistry creates and probes an adapter for every configured
// provider. A failed probe skips that provider instead of aborting, so
// one vendor outage does not take the whole daemon down at startup.
func buildRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) *registry.ProviderRegistry {
	reg := registry.NewProviderRegistry()

	for providerType, providerCfg := range cfg.Providers {
		if !providerCfg.Enabled {
			continue
		}

		adapter, err := registry.CreateAdapter(providerType, providerCfg.Credentials)
		if err != nil {
			logger.Error("create adapter failed",
				zap.String("provider", string(providerType)),
				zap.Error(err))
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = adapter.Initialize(probeCtx)
		cancel()
		if err != nil {
			if contracts.IsAuthentication(err) {
				logger.Error("credentials rejected",
					zap.String("provider", string(providerType)),
					zap.Error(err))
			} else {
				logger.Error("provider probe failed",
					zap.String("provider", string(providerType)),
					zap.Error(err))
			}
			continue
		}

		if err := reg.Register(adapter); err != nil {
			logger.Error("register adapter failed",
				zap.String("provider", string(providerType)),
				zap.Error(err))
			continue
		}

		logger.Info("provider ready", zap.String("provider", string(providerType)))
	}

	return reg
}

// startMetricsServer serves Prometheus metrics and a health endpoint
func startMetricsServer(port string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return server
}
