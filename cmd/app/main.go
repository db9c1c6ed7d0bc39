package main

import (
	"coach-calendar/internal/cache"
	"coach-calendar/internal/config"
	availabilityGet "coach-calendar/internal/http-server/handlers/availability/get"
	eventsGet "coach-calendar/internal/http-server/handlers/events/get"
	sessionsGet "coach-calendar/internal/http-server/handlers/sessions/get"
	weekGet "coach-calendar/internal/http-server/handlers/week/get"
	"coach-calendar/internal/lock"
	"coach-calendar/internal/metrics"
	"coach-calendar/internal/notify"
	svc "coach-calendar/internal/service"
	"coach-calendar/internal/storage/postgres"
	"coach-calendar/pkg/handlers/slogpretty"
	"coach-calendar/pkg/middleware/mwLogger"
	"coach-calendar/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	loc, err := cfg.Calendar.Location()
	if err != nil {
		log.Error("Unknown calendar timezone", slog.String("timezone", cfg.Calendar.Timezone), sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// a missing redis only costs us the cache, so keep serving
	var (
		weekCache svc.WeekCache
		locker    lock.Locker
	)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, week cache disabled", sl.Err(err))
	} else {
		weekCache = cache.New(rdb, cfg.Calendar.CacheTTL)
		locker = lock.NewRedisLock(rdb)
	}

	metrics.Register()

	service := svc.NewService(log, storage, weekCache, locker, svc.Options{
		Location:       loc,
		UnitsPerHour:   cfg.Calendar.UnitsPerHour,
		RebuildLockTTL: cfg.Calendar.RebuildLock,
	})

	listenCtx, stopListener := context.WithCancel(context.Background())
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		listener := notify.New(log, cfg.StoragePath, cfg.Calendar.NotifyChannel, service)
		if err := listener.Run(listenCtx); err != nil {
			log.Error("Schedule change listener failed", sl.Err(err))
		}
	}()

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Coaches
	router.Get("/coaches/{coach_id}/week", weekGet.New(log, service, loc))
	router.Get("/coaches/{coach_id}/availability", availabilityGet.New(log, service))
	router.Get("/coaches/{coach_id}/events", eventsGet.New(log, service, loc))

	// Sessions
	router.Get("/sessions/{id}", sessionsGet.New(log, service))

	router.Handle("/metrics", promhttp.Handler())

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	stopListener()
	<-listenerDone

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := rdb.Close(); err != nil {
		log.Error("Failed to close redis", sl.Err(err))
	} else {
		log.Info("Redis closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
