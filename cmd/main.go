package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aura/internal/adapters/config"
	"aura/internal/adapters/errors/noop"
	"aura/internal/adapters/errors/sentry"
	"aura/internal/adapters/inference"
	"aura/internal/adapters/newsapi"
	openaiadapter "aura/internal/adapters/openai"
	"aura/internal/adapters/postgres"
	redisadapter "aura/internal/adapters/redis"
	"aura/internal/adapters/telegram"
	"aura/internal/domain/news"
	"aura/internal/metrics"
	postgresrepo "aura/internal/repository/postgres"
	"aura/internal/services/analysis"
	"aura/internal/services/insights"
	"aura/internal/signals"
	"aura/internal/workers"
	"aura/internal/workers/ingest"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	repo := postgresrepo.NewNewsRepository(pgClient.DB())
	if err := repo.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Outbound adapters
	fetcher := newsapi.NewClient(cfg.NewsAPI)
	models := inference.NewClient(cfg.Inference)
	summarizer := openaiadapter.NewSummarizer(cfg.OpenAI)

	notifier, err := telegram.NewNotifier(cfg.Telegram)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram notifier: %v", err)
	}

	// Services
	thresholds := news.Thresholds{
		Critical: cfg.Risk.CriticalThreshold,
		Warning:  cfg.Risk.WarningThreshold,
		Positive: cfg.Risk.PositiveThreshold,
	}
	analyzer := analysis.NewAnalyzer(models, models, thresholds, cfg.Pipeline.Categories, log.With("component", "analyzer"))

	var cache insights.Cache
	if redisClient != nil {
		cache = redisClient
	}
	insightsSvc := insights.NewService(
		repo,
		cache,
		summarizer,
		signals.NewRiskScorer(cfg.Risk),
		signals.NewAnomalyDetector(cfg.Signals.AnomalyThreshold),
		signals.NewTrendPredictor(cfg.Signals.TrendLookback),
		thresholds,
		cfg.Signals.CacheTTL,
		log.With("component", "insights"),
	)

	// Workers
	collector := ingest.NewCollector(
		fetcher,
		analyzer,
		repo,
		notifier,
		cfg.Pipeline.Countries,
		cfg.Pipeline.FetchConcurrency,
		cfg.Pipeline.Interval,
		cfg.Pipeline.Enabled,
	)

	scheduler := workers.NewScheduler(time.Minute)
	scheduler.RegisterWorker(collector)

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startHTTPServer(cfg, pgClient, redisClient, insightsSvc, log)
	}

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, scheduler, metricsServer, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initRedis connects to the cache; a missing or unreachable Redis only
// disables caching, it never blocks startup
func initRedis(cfg *config.Config, log *logger.Logger) *redisadapter.Client {
	if !cfg.Redis.Enabled {
		log.Info("Redis caching disabled")
		return nil
	}

	client, err := redisadapter.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Failed to connect to Redis, running without cache: %v", err)
		return nil
	}

	log.Info("Redis cache connected")
	return client
}

// startHTTPServer exposes Prometheus metrics, a health probe, and the
// read-only insights endpoints
func startHTTPServer(
	cfg *config.Config,
	pgClient *postgres.Client,
	redisClient *redisadapter.Client,
	insightsSvc *insights.Service,
	log *logger.Logger,
) *http.Server {
	metrics.Init()

	var pinger metrics.Pinger
	if redisClient != nil {
		pinger = redisClient
	}
	prometheus.MustRegister(metrics.NewCustomCollector(log, pgClient.DB(), pinger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pgClient.Health(r.Context()); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/insights", func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := insightsSvc.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "failed to compute insights", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	})

	mux.HandleFunc("/digest", func(w http.ResponseWriter, r *http.Request) {
		digest, err := insightsSvc.Digest(r.Context())
		if err != nil {
			http.Error(w, "failed to build digest", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"digest": digest})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	return server
}

// waitForShutdown waits for a shutdown signal and stops everything in order
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	scheduler *workers.Scheduler,
	metricsServer *http.Server,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("HTTP server shutdown: %v", err)
		}
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
