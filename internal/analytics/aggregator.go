package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
)

// AggregatedStats is a point-in-time summary of query traffic.
type AggregatedStats struct {
	TotalQueries     int64            `json:"total_queries"`
	ZeroResults      int64            `json:"zero_results"`
	CacheHits        int64            `json:"cache_hits"`
	Reindexes        int64            `json:"reindexes"`
	AvgLatencyMs     float64          `json:"avg_latency_ms"`
	KeywordFrequency map[string]int64 `json:"keyword_frequency"`
	TopKeywords      []KeywordCount   `json:"top_keywords"`
}

// KeywordCount pairs a queried keyword with how often it was requested.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// Aggregator consumes the analytics topic and maintains in-memory counters.
type Aggregator struct {
	mu             sync.RWMutex
	totalQueries   int64
	zeroResults    int64
	cacheHits      int64
	reindexes      int64
	totalLatencyMs int64
	keywordCounts  map[string]int64
	logger         *slog.Logger
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		keywordCounts: make(map[string]int64),
		logger:        logger.WithComponent("analytics-aggregator"),
	}
}

// Handle is a kafka.MessageHandler that folds one event into the counters.
func (a *Aggregator) Handle(ctx context.Context, key []byte, value []byte) error {
	var probe struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(value, &probe); err != nil {
		return fmt.Errorf("decoding analytics event: %w", err)
	}

	switch probe.Type {
	case EventQuery, EventZeroResult:
		var ev QueryEvent
		if err := json.Unmarshal(value, &ev); err != nil {
			return fmt.Errorf("decoding query event: %w", err)
		}
		a.recordQuery(ev)
	case EventReindex:
		a.mu.Lock()
		a.reindexes++
		a.mu.Unlock()
	default:
		a.logger.Warn("unknown analytics event type", "type", probe.Type)
	}
	return nil
}

func (a *Aggregator) recordQuery(ev QueryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalQueries++
	a.totalLatencyMs += ev.LatencyMs
	if ev.Returned == 0 {
		a.zeroResults++
	}
	if ev.CacheHit {
		a.cacheHits++
	}
	if ev.Keyword1 != "" {
		a.keywordCounts[ev.Keyword1]++
	}
	if ev.Keyword2 != "" {
		a.keywordCounts[ev.Keyword2]++
	}
}

// Stats returns a snapshot of the aggregated counters.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:     a.totalQueries,
		ZeroResults:      a.zeroResults,
		CacheHits:        a.cacheHits,
		Reindexes:        a.reindexes,
		KeywordFrequency: make(map[string]int64, len(a.keywordCounts)),
	}
	if a.totalQueries > 0 {
		stats.AvgLatencyMs = float64(a.totalLatencyMs) / float64(a.totalQueries)
	}
	for kw, n := range a.keywordCounts {
		stats.KeywordFrequency[kw] = n
		stats.TopKeywords = append(stats.TopKeywords, KeywordCount{Keyword: kw, Count: n})
	}
	sort.Slice(stats.TopKeywords, func(i, j int) bool {
		if stats.TopKeywords[i].Count != stats.TopKeywords[j].Count {
			return stats.TopKeywords[i].Count > stats.TopKeywords[j].Count
		}
		return stats.TopKeywords[i].Keyword < stats.TopKeywords[j].Keyword
	})
	if len(stats.TopKeywords) > 10 {
		stats.TopKeywords = stats.TopKeywords[:10]
	}
	return stats
}

// StatsHandler serves the aggregated stats as JSON.
func (a *Aggregator) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(a.Stats()); err != nil {
			a.logger.Error("encoding analytics stats", "error", err)
		}
	}
}
