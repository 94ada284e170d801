package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func track(t *testing.T, a *Aggregator, event any) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Handle(context.Background(), []byte("analytics"), data); err != nil {
		t.Fatalf("Handle: %v", err)
	}
}

func TestAggregatorCountsQueries(t *testing.T) {
	a := NewAggregator()

	track(t, a, QueryEvent{
		Type: EventQuery, Keyword1: "whale", Keyword2: "ocean",
		Returned: 3, CacheHit: false, LatencyMs: 4, Timestamp: time.Now(),
	})
	track(t, a, QueryEvent{
		Type: EventQuery, Keyword1: "whale", Keyword2: "tide",
		Returned: 1, CacheHit: true, LatencyMs: 2, Timestamp: time.Now(),
	})
	track(t, a, QueryEvent{
		Type: EventZeroResult, Keyword1: "kraken", Keyword2: "whale",
		Returned: 0, LatencyMs: 6, Timestamp: time.Now(),
	})
	track(t, a, ReindexEvent{Type: EventReindex, Documents: 4, Keywords: 120})

	stats := a.Stats()
	if stats.TotalQueries != 3 {
		t.Errorf("TotalQueries = %d, want 3", stats.TotalQueries)
	}
	if stats.ZeroResults != 1 {
		t.Errorf("ZeroResults = %d, want 1", stats.ZeroResults)
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
	if stats.Reindexes != 1 {
		t.Errorf("Reindexes = %d, want 1", stats.Reindexes)
	}
	if stats.AvgLatencyMs != 4 {
		t.Errorf("AvgLatencyMs = %v, want 4", stats.AvgLatencyMs)
	}

	wantTop := []KeywordCount{
		{Keyword: "whale", Count: 3},
		{Keyword: "kraken", Count: 1},
		{Keyword: "ocean", Count: 1},
		{Keyword: "tide", Count: 1},
	}
	if diff := cmp.Diff(wantTop, stats.TopKeywords); diff != "" {
		t.Errorf("TopKeywords mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorRejectsMalformedEvent(t *testing.T) {
	a := NewAggregator()
	if err := a.Handle(context.Background(), nil, []byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
