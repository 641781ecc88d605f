package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chronicle/internal/analytics"
	"chronicle/internal/article/loader"
	artmetrics "chronicle/internal/article/metrics"
	artstore "chronicle/internal/article/store"
	"chronicle/internal/platform/config"
	"chronicle/internal/platform/httpserver"
	"chronicle/internal/platform/logger"
	platformredis "chronicle/internal/platform/redis"
	"chronicle/internal/session"
	sessionhandler "chronicle/internal/session/handler"
	subjstore "chronicle/internal/subject/store"
	timelinehandler "chronicle/internal/timeline/handler"
	tlmetrics "chronicle/internal/timeline/metrics"
	tlservice "chronicle/internal/timeline/service"
	"chronicle/pkg/platform/httputil"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ordering, err := config.LoadOrdering(cfg.OrderingFile)
	if err != nil {
		log.Error("failed to load ordering tables", "error", err.Error())
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	timelineMetrics := tlmetrics.New(registry)
	articleMetrics := artmetrics.New(registry)

	var subjects tlservice.SubjectContentStore
	var articleFetch loader.Fetcher
	if cfg.PostgresDSN != "" {
		db, err := subjstore.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		subjects = subjstore.NewPostgres(db)

		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to create pgx pool", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		articleFetch = artstore.NewPostgres(pool, articleMetrics)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		subjects = subjstore.NewInMemory()
		articleFetch = artstore.NewInMemory()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		articleFetch = artstore.NewRedisCache(redisClient.Client, articleFetch, cfg.Redis.CacheTTL, log, articleMetrics)
		log.Info("article cache enabled")
	}

	publisher := analytics.NewPublisher(analytics.WithLogger(log))
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := analytics.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect kafka", "error", err.Error())
			os.Exit(1)
		}
		defer sink.Close()
		worker := analytics.NewWorker(publisher, sink, log)
		go func() { _ = worker.Run(ctx) }()
		log.Info("analytics sink enabled", "topic", cfg.Kafka.Topic)
	}

	timelineService, err := tlservice.New(subjects, ordering,
		tlservice.WithLogger(log),
		tlservice.WithMetrics(timelineMetrics),
	)
	if err != nil {
		log.Error("failed to create timeline service", "error", err.Error())
		os.Exit(1)
	}

	sessions := session.NewManager(articleFetch,
		session.WithBatchSize(cfg.ArticleBatchSize),
		session.WithSearchDebounce(cfg.SearchDebounce),
		session.WithSessionTTL(cfg.SessionTTL),
		session.WithSettleHook(func(sessionID, text string) {
			publisher.Emit(analytics.Event{
				Type:       analytics.EventSearchSettled,
				SessionID:  sessionID,
				SearchText: text,
			})
		}),
	)
	go func() { _ = sessions.Run(ctx) }()

	router := chi.NewRouter()
	timelinehandler.New(timelineService, sessions, log, timelineMetrics, publisher).Register(router)
	sessionhandler.New(timelineService, sessions, articleFetch, log, articleMetrics, publisher).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting chronicle", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
