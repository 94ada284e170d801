// Package analytics publishes query and indexing events to Kafka and
// aggregates them into in-memory usage stats.
package analytics

import "time"

type EventType string

const (
	EventQuery      EventType = "query"
	EventZeroResult EventType = "zero_result"
	EventReindex    EventType = "reindex"
)

// QueryEvent records one top-5 query.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Keyword1  string    `json:"keyword1"`
	Keyword2  string    `json:"keyword2"`
	Returned  int       `json:"returned"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// ReindexEvent records one indexing pass.
type ReindexEvent struct {
	Type       EventType `json:"type"`
	Documents  int       `json:"documents"`
	Keywords   int       `json:"keywords"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
