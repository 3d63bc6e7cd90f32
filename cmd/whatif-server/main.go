package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trendops/whatif/internal/collab"
	"github.com/trendops/whatif/internal/config"
	"github.com/trendops/whatif/internal/events"
	"github.com/trendops/whatif/internal/history"
	"github.com/trendops/whatif/internal/httpapi"
	"github.com/trendops/whatif/internal/simulation"
	"github.com/trendops/whatif/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (env vars override file values)")
	flag.Parse()

	// A local .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := buildLogger(cfg.Logging.Level)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "whatif-server", cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.SampleRatio)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("create data dir", zap.String("dir", dir), zap.Error(err))
		}
	}
	store, err := history.Open(cfg.Database.SQLitePath)
	if err != nil {
		logger.Fatal("open history store", zap.String("path", cfg.Database.SQLitePath), zap.Error(err))
	}
	defer store.Close()

	if days := cfg.Database.RetentionDays; days > 0 {
		removed, err := store.Prune(time.Now().AddDate(0, 0, -days))
		if err != nil {
			logger.Warn("prune history", zap.Error(err))
		} else if removed > 0 {
			logger.Info("pruned old simulations",
				zap.Int64("removed", removed),
				zap.Int("retention_days", days))
		}
	}

	trends, risks, roi := buildCollaborators(cfg, logger)

	sim := simulation.NewSimulator(simulation.SimulatorConfig{
		Trends:       trends,
		Risks:        risks,
		ROI:          roi,
		QueryTimeout: time.Duration(cfg.Collaborators.TimeoutSeconds) * time.Second,
		Logger:       logger,
	})

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Fatal("init kafka publisher", zap.Error(err))
		}
		publisher = kp
		logger.Info("publishing completion events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	handler := httpapi.NewServer(httpapi.Config{
		Simulator:    sim,
		Store:        store,
		Publisher:    publisher,
		Logger:       logger,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.Close()
	}()

	logger.Info("whatif-server listening", zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// buildCollaborators wires the three upstream dependencies. Each falls back
// to the deterministic static implementation when its URL is unset, and the
// two query-by-trend clients get a Redis read-through cache when Redis is
// configured.
func buildCollaborators(cfg *config.Config, logger *zap.Logger) (simulation.TrendLifecycleEngine, simulation.EarlyDeclineDetector, simulation.ROIAttributor) {
	timeout := time.Duration(cfg.Collaborators.TimeoutSeconds) * time.Second

	var trends simulation.TrendLifecycleEngine
	if url := cfg.Collaborators.TrendEngineURL; url != "" {
		trends = collab.NewTrendLifecycleClient(url, timeout)
	} else {
		trends = &collab.StaticTrendEngine{}
		logger.Info("trend engine URL unset, using static fixtures")
	}

	var risks simulation.EarlyDeclineDetector
	if url := cfg.Collaborators.DeclineDetectorURL; url != "" {
		risks = collab.NewEarlyDeclineClient(url, timeout)
	} else {
		risks = &collab.StaticDeclineDetector{}
		logger.Info("decline detector URL unset, using static fixtures")
	}

	var roi simulation.ROIAttributor
	if url := cfg.Collaborators.ROIAttributionURL; url != "" {
		roi = collab.NewROIAttributionClient(url, timeout)
	} else {
		roi = &collab.StaticROIAttributor{}
		logger.Info("ROI attribution URL unset, using static estimator")
	}

	if cfg.Redis.URL != "" {
		rdb, err := collab.ConnectRedis(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		trends = collab.NewCachedTrendEngine(trends, rdb, ttl, logger)
		risks = collab.NewCachedDeclineDetector(risks, rdb, ttl, logger)
		logger.Info("collaborator caching enabled", zap.String("redis", cfg.Redis.URL))
	}

	return trends, risks, roi
}

func buildLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	return logger
}
