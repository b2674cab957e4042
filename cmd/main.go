package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/KasumiMercury/primind-void-timer/internal/config"
	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/handler"
	"github.com/KasumiMercury/primind-void-timer/internal/health"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/display"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/eventstore"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/kvstore"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/notify"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/recordstore"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/syncrecorder"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/wake"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/logging"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/metrics"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/middleware"
	"github.com/KasumiMercury/primind-void-timer/internal/service/background"
	"github.com/KasumiMercury/primind-void-timer/internal/service/history"
	"github.com/KasumiMercury/primind-void-timer/internal/service/syncqueue"
	"github.com/KasumiMercury/primind-void-timer/internal/service/timer"
)

// Version is set via ldflags at build time
var Version = "dev"

const moduleName = logging.Module("void-timer")

type displayPublisher interface {
	domain.DisplayRefresher
	domain.OverdueAlerter
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	syncMetrics, err := metrics.NewSyncMetrics()
	if err != nil {
		slog.Error("failed to initialize sync metrics", slog.String("error", err.Error()))
		return 1
	}

	timerMetrics, err := metrics.NewTimerMetrics()
	if err != nil {
		slog.Error("failed to initialize timer metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	resultRecorder, err := syncrecorder.NewRecorder(ctx, *cfg.Recorder)
	if err != nil {
		slog.Error("failed to initialize sync result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close sync result recorder", slog.String("error", err.Error()))
		}
	}()

	var (
		redisClient *redis.Client
		store       domain.KVStore
	)
	if cfg.Store.UsesRedis() {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		store = kvstore.NewRedisStore(redisClient, cfg.Store.Namespace)
	} else {
		fileStore, err := kvstore.NewFileStore(afero.NewOsFs(), cfg.Store.FilePath)
		if err != nil {
			slog.Error("failed to open file store",
				slog.String("event", "kvstore.file.open_failed"),
				slog.String("path", cfg.Store.FilePath),
				slog.String("error", err.Error()),
			)
			return 1
		}
		store = fileStore

		slog.Info("file store opened", slog.String("path", cfg.Store.FilePath))
	}

	eventStore, err := eventstore.Open(cfg.Store.EventDBPath)
	if err != nil {
		slog.Error("failed to open event store",
			slog.String("event", "eventstore.open_failed"),
			slog.String("path", cfg.Store.EventDBPath),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := eventStore.Close(); err != nil {
			slog.Warn("failed to close event store", slog.String("error", err.Error()))
		}
	}()

	remoteStore := recordstore.NewClient(cfg.Sync.RemoteStoreURL)

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	notifier := notify.NewScheduler(taskQueue, store, cfg.TaskQueue.NotificationTargetURL)

	var waker domain.WakeScheduler
	if taskQueue != nil {
		waker = wake.NewScheduler(taskQueue, cfg.Sync.WakeTargetURL)
	}

	var publisher displayPublisher = display.NewLogPublisher()
	waitDisplay := func() {}
	if redisClient != nil {
		redisPublisher := display.NewRedisPublisher(redisClient, cfg.Store.Namespace)
		publisher = redisPublisher
		waitDisplay = redisPublisher.Wait
	}

	clock := timer.NewSystemClock(cfg.Timer.Location)

	settingsStore := timer.NewSettingsStore(store, timer.Settings{
		Interval: cfg.Timer.Interval(),
		QuietWindow: domain.QuietWindow{
			Enabled:   cfg.Timer.QuietWindowEnabled,
			StartHour: cfg.Timer.QuietWindowStartHour,
			EndHour:   cfg.Timer.QuietWindowEndHour,
		},
	})

	timerService := timer.NewService(
		clock,
		settingsStore,
		notifier,
		publisher,
		publisher,
		timerMetrics,
		timer.Config{
			Snooze:      cfg.Timer.Snooze(),
			TickEnabled: cfg.Timer.TickEnabled,
		},
	)

	syncQueue := syncqueue.NewQueue(store, remoteStore, resultRecorder, syncMetrics, syncqueue.Config{
		MaxBatchSize: cfg.Sync.MaxBatchSize,
	})
	defer syncQueue.Wait()
	defer waitDisplay()

	historyService := history.NewService(clock, eventStore, syncQueue, remoteStore, timerService, history.Config{
		RecentDays: cfg.Sync.RecentDays,
	})

	backgroundService := background.NewService(clock, syncQueue, waker, background.Config{
		WakeInterval: cfg.Sync.WakeInterval(),
	})

	go timerService.Run(ctx)
	if waker == nil {
		slog.Info("no task queue configured, draining on an in-process ticker",
			slog.Duration("interval", cfg.Sync.WakeInterval()),
		)
		go backgroundService.Run(ctx)
	}

	timerHandler := handler.NewTimerHandler(timerService, clock)
	eventsHandler := handler.NewEventsHandler(historyService)
	syncHandler := handler.NewSyncHandler(syncQueue, backgroundService)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     moduleName,
		Worker:     true,
		TracerName: "github.com/KasumiMercury/primind-void-timer/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if c.FullPath() == "" {
				return c.Request.URL.Path
			}
			return c.FullPath()
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, eventStore, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler()
	r.POST(grpcHealthPath+"*method", gin.WrapH(grpcHealthHandler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/timer", timerHandler.HandleSnapshot)
		v1.POST("/timer/reset", timerHandler.HandleReset)
		v1.POST("/timer/snooze", timerHandler.HandleSnooze)
		v1.GET("/timer/settings", timerHandler.HandleGetSettings)
		v1.PUT("/timer/settings", timerHandler.HandleUpdateSettings)
		v1.GET("/timer/timeline", timerHandler.HandleTimeline)

		v1.POST("/events", eventsHandler.HandleLog)
		v1.GET("/events", eventsHandler.HandleList)
		v1.DELETE("/events", eventsHandler.HandleClear)

		v1.POST("/sync/flush", syncHandler.HandleFlush)
		v1.POST("/sync/wake", syncHandler.HandleWake)
		v1.GET("/sync/status", syncHandler.HandleStatus)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("store_backend", cfg.Store.Backend),
			slog.Int("interval_minutes", cfg.Timer.IntervalMinutes),
			slog.Int("wake_interval_minutes", cfg.Sync.WakeIntervalMinutes),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

// connectRedis opens an instrumented client and verifies it with a ping.
// Failures are logged before returning.
func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	slog.Info("redis connected", slog.String("addr", cfg.Addr))
	return client, nil
}
