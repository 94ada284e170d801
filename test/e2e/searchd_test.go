//go:build e2e

// Package e2e contains end-to-end tests that exercise a running searchd
// instance, with real Redis, Kafka, and PostgreSQL behind it.
//
// Prerequisites:
//   - searchd running with a corpus configured
//   - Redis, Kafka, and PostgreSQL running (optional; searchd degrades)
//
// Run with:
//
//	go test -v -tags=e2e -timeout=60s ./test/e2e/...
package e2e

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("E2E_SEARCHD_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

var client = &http.Client{Timeout: 10 * time.Second}

func TestHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := client.Get(baseURL() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
	}
}

func TestSearchReturnsAtMostFive(t *testing.T) {
	resp, err := client.Get(baseURL() + "/api/v1/search?kw1=ocean&kw2=whale")
	if err != nil {
		t.Fatalf("search request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status: %d", resp.StatusCode)
	}

	var body struct {
		Documents []string `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	if len(body.Documents) > 5 {
		t.Errorf("search returned %d documents, cap is 5", len(body.Documents))
	}
}

func TestReindexThenSearch(t *testing.T) {
	resp, err := client.Post(baseURL()+"/api/v1/reindex", "application/json", nil)
	if err != nil {
		t.Fatalf("reindex request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reindex status: %d", resp.StatusCode)
	}

	resp, err = client.Get(baseURL() + "/api/v1/search?kw1=ocean&kw2=whale")
	if err != nil {
		t.Fatalf("search after reindex: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("search after reindex: status %d", resp.StatusCode)
	}
}
