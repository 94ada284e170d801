package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchlab-dev/keyword-search-engine/internal/analytics"
	"github.com/searchlab-dev/keyword-search-engine/internal/catalog"
	"github.com/searchlab-dev/keyword-search-engine/internal/corpus"
	"github.com/searchlab-dev/keyword-search-engine/internal/indexer"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher/cache"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher/handler"
	"github.com/searchlab-dev/keyword-search-engine/pkg/config"
	"github.com/searchlab-dev/keyword-search-engine/pkg/health"
	"github.com/searchlab-dev/keyword-search-engine/pkg/kafka"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
	"github.com/searchlab-dev/keyword-search-engine/pkg/metrics"
	"github.com/searchlab-dev/keyword-search-engine/pkg/middleware"
	"github.com/searchlab-dev/keyword-search-engine/pkg/postgres"
	pkgredis "github.com/searchlab-dev/keyword-search-engine/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	noiseWords, err := corpus.LoadNoiseWords(cfg.Corpus.NoiseWordsFile)
	if err != nil {
		slog.Error("failed to load noise words", "error", err)
		os.Exit(1)
	}
	docIDs, err := corpus.LoadDocumentList(cfg.Corpus.DocsFile)
	if err != nil {
		slog.Error("failed to load document list", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus loaded",
		"documents", len(docIDs),
		"noise_words", len(noiseWords),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := indexer.NewEngine(corpus.NewFSLoader(cfg.Corpus.Root), noiseWords)
	service := searcher.NewService(engine, docIDs)
	if err := service.Reindex(ctx); err != nil {
		slog.Error("initial indexing pass failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	m.IndexPassesTotal.WithLabelValues("success").Inc()
	m.IndexKeywords.Set(float64(service.Keywords()))
	m.DocsIndexedTotal.Add(float64(len(docIDs)))
	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	var catalogStore *catalog.Store
	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, document catalog disabled", "error", err)
	} else {
		defer pgClient.Close()
		catalogStore = catalog.NewStore(pgClient)
		slog.Info("document catalog enabled", "host", cfg.Postgres.Host)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 4096)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents, aggregator.Handle)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("analytics consumer stopped", "error", err)
		}
	}()
	slog.Info("analytics pipeline started", "topic", cfg.Kafka.Topics.QueryEvents)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.Result {
		if service.Keywords() > 0 {
			return health.Result{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d keywords indexed", service.Keywords()),
			}
		}
		return health.Result{Status: health.StatusDegraded, Message: "index empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.Result {
		if redisClient == nil {
			return health.Result{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.Result{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.Result{Status: health.StatusUp}
	})

	h := handler.New(service, engine.Normalizer(), queryCache, collector, catalogStore, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/keywords/{keyword}", h.Keyword)
	mux.HandleFunc("POST /api/v1/reindex", h.Reindex)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("GET /api/v1/analytics", aggregator.StatsHandler())
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if shutdownMetrics != nil {
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
