// Package middleware provides the HTTP middleware chain for the search
// service: request-id tagging, Prometheus request metrics, and a request
// timeout.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/searchlab-dev/keyword-search-engine/pkg/metrics"
)

// Metrics records request count, latency, and the in-flight gauge.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(sw.status),
			).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// statusWriter captures the response status code for the metric labels.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}

const keywordRoute = "/api/v1/keywords/"

// normalizePath collapses the keyword lookup route to its pattern so every
// distinct keyword does not become its own metric series. All other routes
// are static.
func normalizePath(path string) string {
	if strings.HasPrefix(path, keywordRoute) && len(path) > len(keywordRoute) {
		return keywordRoute + "{keyword}"
	}
	return path
}
