// Package handler exposes the search engine over HTTP: top-5 queries,
// keyword lookups, reindexing, and cache statistics.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/searchlab-dev/keyword-search-engine/internal/analytics"
	"github.com/searchlab-dev/keyword-search-engine/internal/catalog"
	"github.com/searchlab-dev/keyword-search-engine/internal/index"
	"github.com/searchlab-dev/keyword-search-engine/internal/keyword"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher/cache"
	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
	"github.com/searchlab-dev/keyword-search-engine/pkg/metrics"
	"github.com/searchlab-dev/keyword-search-engine/pkg/middleware"
	"github.com/searchlab-dev/keyword-search-engine/pkg/resilience"
	"github.com/searchlab-dev/keyword-search-engine/pkg/tracing"
)

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Keyword1  string   `json:"keyword1"`
	Keyword2  string   `json:"keyword2"`
	Documents []string `json:"documents"`
	CacheHit  bool     `json:"cache_hit"`
}

// KeywordResponse is the JSON body returned by the keyword lookup endpoint.
type KeywordResponse struct {
	Keyword     string               `json:"keyword"`
	Occurrences index.OccurrenceList `json:"occurrences"`
}

// Handler serves the search API. Cache, collector, catalog, and metrics are
// all optional; a nil collaborator just disables its feature.
type Handler struct {
	service   *searcher.Service
	norm      *keyword.Normalizer
	cache     *cache.QueryCache
	collector *analytics.Collector
	catalog   *catalog.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler.
func New(
	service *searcher.Service,
	norm *keyword.Normalizer,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	catalogStore *catalog.Store,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		service:   service,
		norm:      norm,
		cache:     queryCache,
		collector: collector,
		catalog:   catalogStore,
		metrics:   m,
		logger:    logger.WithComponent("search-handler"),
	}
}

// Search handles GET /api/v1/search?kw1=&kw2=. Both keywords are required.
// They are canonicalized with the same normalizer the indexer used; a
// keyword that fails normalization simply cannot match anything and is
// passed through as-is (the lookup then misses).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	kw1 := r.URL.Query().Get("kw1")
	kw2 := r.URL.Query().Get("kw2")
	if kw1 == "" || kw2 == "" {
		h.writeError(w, http.StatusBadRequest, "query parameters 'kw1' and 'kw2' are required")
		return
	}
	kw1 = h.canonical(kw1)
	kw2 = h.canonical(kw2)

	span := tracing.Start("search", middleware.GetRequestID(ctx))
	span.SetAttr("kw1", kw1)
	span.SetAttr("kw2", kw2)
	defer span.End()

	var docs []string
	cacheHit := false
	if h.cache != nil {
		docs, cacheHit = h.cache.GetOrCompute(ctx, kw1, kw2, func() []string {
			return h.service.Search(kw1, kw2)
		})
	} else {
		docs = h.service.Search(kw1, kw2)
	}

	latency := time.Since(start)
	log.Info("search completed",
		"kw1", kw1,
		"kw2", kw2,
		"returned", len(docs),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.recordSearchMetrics(docs, cacheHit, latency)
	if h.collector != nil {
		eventType := analytics.EventQuery
		if len(docs) == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.QueryEvent{
			Type:      eventType,
			Keyword1:  kw1,
			Keyword2:  kw2,
			Returned:  len(docs),
			CacheHit:  cacheHit,
			LatencyMs: latency.Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Keyword1:  kw1,
		Keyword2:  kw2,
		Documents: docs,
		CacheHit:  cacheHit,
	})
}

// Keyword handles GET /api/v1/keywords/{keyword}, returning the keyword's
// occurrence list in descending frequency order.
func (h *Handler) Keyword(w http.ResponseWriter, r *http.Request) {
	kw := h.canonical(r.PathValue("keyword"))
	occs, ok := h.service.LookupKeyword(kw)
	if !ok {
		h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrKeywordNotFound), "keyword not indexed")
		return
	}
	h.writeJSON(w, http.StatusOK, KeywordResponse{
		Keyword:     kw,
		Occurrences: occs,
	})
}

// Reindex handles POST /api/v1/reindex: it rebuilds the index from the
// corpus, invalidates the query cache, and refreshes the document catalog.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	span := tracing.Start("reindex", middleware.GetRequestID(ctx))
	defer span.End()

	if err := h.service.Reindex(ctx); err != nil {
		log.Error("reindex failed", "error", err)
		if h.metrics != nil {
			h.metrics.IndexPassesTotal.WithLabelValues("error").Inc()
		}
		h.writeError(w, apperrors.HTTPStatusCode(err), "reindex failed")
		return
	}
	duration := time.Since(start)

	if h.metrics != nil {
		h.metrics.IndexPassesTotal.WithLabelValues("success").Inc()
		h.metrics.IndexKeywords.Set(float64(h.service.Keywords()))
		h.metrics.IndexBuildDuration.Observe(duration.Seconds())
		h.metrics.DocsIndexedTotal.Add(float64(len(h.service.Documents())))
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			log.Error("cache invalidation after reindex failed", "error", err)
		}
	}
	h.refreshCatalog(ctx)
	if h.collector != nil {
		h.collector.Track(analytics.ReindexEvent{
			Type:       analytics.EventReindex,
			Documents:  len(h.service.Documents()),
			Keywords:   h.service.Keywords(),
			DurationMs: duration.Milliseconds(),
			Timestamp:  time.Now().UTC(),
		})
	}

	span.SetAttr("documents", len(h.service.Documents()))
	span.SetAttr("keywords", h.service.Keywords())
	h.writeJSON(w, http.StatusOK, map[string]any{
		"documents": len(h.service.Documents()),
		"keywords":  h.service.Keywords(),
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// refreshCatalog records the freshly indexed corpus in Postgres. Failures
// are logged, never surfaced: the catalog is bookkeeping, not correctness.
func (h *Handler) refreshCatalog(ctx context.Context) {
	if h.catalog == nil {
		return
	}
	docs := h.service.Documents()
	counts := h.service.DocumentKeywordCounts()
	entries := make([]catalog.Entry, 0, len(docs))
	for i, doc := range docs {
		entries = append(entries, catalog.Entry{
			Document: doc,
			Position: i,
			Keywords: counts[doc],
		})
	}
	err := resilience.WithTimeout(ctx, 10*time.Second, "catalog-refresh", func(ctx context.Context) error {
		return h.catalog.ReplaceAll(ctx, entries)
	})
	if err != nil {
		h.logger.Error("catalog refresh failed", "error", err)
	}
}

func (h *Handler) canonical(kw string) string {
	if normalized, ok := h.norm.Normalize(kw); ok {
		return normalized
	}
	return kw
}

func (h *Handler) recordSearchMetrics(docs []string, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	resultType := "hit"
	if len(docs) == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(docs)))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
