// Package indexer builds the global keyword index from a corpus: it scans
// each document into a local keyword-frequency map and merges the maps into
// an index.Index, strictly in document order.
package indexer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/searchlab-dev/keyword-search-engine/internal/corpus"
	"github.com/searchlab-dev/keyword-search-engine/internal/index"
	"github.com/searchlab-dev/keyword-search-engine/internal/keyword"
	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
)

// Engine drives indexing passes. It is immutable after construction, so
// concurrent BuildIndex calls are safe; each pass builds an independent
// index that is safe for concurrent reads once BuildIndex returns.
type Engine struct {
	loader corpus.DocumentLoader
	norm   *keyword.Normalizer
	logger *slog.Logger
}

// NewEngine creates an Engine over the given loader and noise words. The
// noise-word set is fixed for the lifetime of the engine.
func NewEngine(loader corpus.DocumentLoader, noiseWords []string) *Engine {
	return &Engine{
		loader: loader,
		norm:   keyword.NewNormalizer(noiseWords),
		logger: logger.WithComponent("indexer"),
	}
}

// Normalizer exposes the engine's normalizer, letting callers canonicalize
// query keywords the same way indexed tokens were.
func (e *Engine) Normalizer() *keyword.Normalizer {
	return e.norm
}

// BuildIndex indexes every document in docIDs, in order, and returns the
// resulting index. The first document that cannot be loaded aborts the pass
// and its error is returned; the partial index is not usable and callers
// should discard it.
func (e *Engine) BuildIndex(ctx context.Context, docIDs []string) (*index.Index, error) {
	start := time.Now()
	ix := index.New()
	for _, docID := range docIDs {
		local, err := e.ScanDocument(ctx, docID)
		if err != nil {
			e.logger.Error("document scan failed, aborting indexing pass",
				"doc_id", docID,
				"error", err,
			)
			return nil, err
		}
		ix.Merge(local)
		e.logger.Debug("document merged",
			"doc_id", docID,
			"keywords", len(local),
		)
	}
	e.logger.Info("indexing pass complete",
		"documents", len(docIDs),
		"keywords", ix.Keywords(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return ix, nil
}

// ScanDocument loads one document and accumulates its keyword frequencies
// into a fresh local map. Tokens that fail normalization contribute
// nothing. The map is independent of any other document's scan.
func (e *Engine) ScanDocument(ctx context.Context, docID string) (map[string]*index.Occurrence, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 400, "empty document identifier")
	}
	tokens, err := e.loader.LoadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	local := make(map[string]*index.Occurrence)
	for _, token := range tokens {
		kw, ok := e.norm.Normalize(token)
		if !ok {
			continue
		}
		if occ, seen := local[kw]; seen {
			occ.Frequency++
		} else {
			local[kw] = &index.Occurrence{Document: docID, Frequency: 1}
		}
	}
	return local, nil
}
