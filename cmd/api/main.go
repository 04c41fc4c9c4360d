package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/agent"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/api"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/config"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/export"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/google"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/logging"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/metrics"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/repository"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/scheduler"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessions := initSessions(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventBus := events.NewEventBus()
	metrics.Register()

	windows := scheduler.NewWindowsService(db, eventBus, &logger)
	ledger := scheduler.NewBookingService(db, eventBus, &logger)
	dispatcher := agent.NewDispatcher(ledger, &logger)

	snapshotWorker := worker.NewSnapshotWorker(db, sessions, worker.RetryPolicy{}, &logger)
	snapshotWorker.SubscribeTo(eventBus)
	go snapshotWorker.Start(ctx)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	deps := api.Deps{
		Windows:    windows,
		Ledger:     ledger,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Exporter:   export.NewExporter(db, cfg.Exports.Path, &logger),
	}
	if err := initVoicePipeline(ctx, cfg, &deps, &logger); err != nil {
		logger.Warn().Err(err).Msg("voice pipeline unavailable, voice endpoints disabled")
	}

	httpServer := api.NewHTTPServer(cfg.API, cfg.Session, deps, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize database")
		return nil, err
	}
	return db, nil
}

func initSessions(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.SessionRepository) {
	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	fallback := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, sessions kept in memory")
		return nil, fallback
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return redisClient, repository.NewFailoverSessionRepository(primary, fallback, logger)
}

func initVoicePipeline(ctx context.Context, cfg *config.Config, deps *api.Deps, logger *zerolog.Logger) error {
	if cfg.Google.GeminiAPIKey == "" {
		return fmt.Errorf("google.gemini_api_key is not set")
	}

	gemini, err := google.NewGeminiClient(ctx, cfg.Google)
	if err != nil {
		return err
	}

	stt, err := google.NewSpeechClient(ctx, cfg.Google)
	if err != nil {
		return err
	}

	tts, err := google.NewTTSClient(ctx, cfg.Google)
	if err != nil {
		return err
	}

	deps.Extractor = gemini
	deps.Transcriber = stt
	deps.Synthesizer = tts
	logger.Info().Str("model", cfg.Google.GeminiModel).Msg("voice pipeline initialized")
	return nil
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
