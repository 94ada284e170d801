// Package tracing times individual operations and emits them as structured
// slog records. Each request performs exactly one traced operation (a
// search or a reindex), so spans are flat: no parent/child trees, no
// context propagation. The request id ties the span record to the rest of
// the request's log lines.
package tracing

import (
	"log/slog"
	"time"
)

// Span is one timed operation.
type Span struct {
	name      string
	requestID string
	start     time.Time
	attrs     []any
}

// Start begins timing a named operation.
func Start(name, requestID string) *Span {
	return &Span{
		name:      name,
		requestID: requestID,
		start:     time.Now(),
	}
}

// SetAttr attaches a key-value pair to the span record.
func (s *Span) SetAttr(key string, value any) {
	s.attrs = append(s.attrs, key, value)
}

// End stops the clock and logs the span.
func (s *Span) End() {
	attrs := []any{
		"span", s.name,
		"request_id", s.requestID,
		"duration_ms", time.Since(s.start).Milliseconds(),
	}
	attrs = append(attrs, s.attrs...)
	slog.Info("span", attrs...)
}
