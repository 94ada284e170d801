package searcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/searchlab-dev/keyword-search-engine/internal/index"
	"github.com/searchlab-dev/keyword-search-engine/internal/indexer"
	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
)

// Service owns the live index on behalf of concurrent callers. The core
// index has no locking of its own; Service holds the write lock for the
// whole rebuild and a read lock per query, so queries observe either the
// previous index or the fully built new one.
type Service struct {
	mu     sync.RWMutex
	ix     *index.Index
	engine *indexer.Engine
	docIDs []string
	logger *slog.Logger
}

// NewService creates a Service around an engine and the ordered document
// list it indexes. The service starts with an empty index; call Reindex to
// populate it.
func NewService(engine *indexer.Engine, docIDs []string) *Service {
	return &Service{
		ix:     index.New(),
		engine: engine,
		docIDs: docIDs,
		logger: logger.WithComponent("search-service"),
	}
}

// Reindex rebuilds the index from the corpus and swaps it in. On failure
// the previous index stays live and the error is returned.
func (s *Service) Reindex(ctx context.Context) error {
	start := time.Now()
	ix, err := s.engine.BuildIndex(ctx, s.docIDs)
	if err != nil {
		return apperrors.Newf(apperrors.ErrIndexing, 500, "rebuilding index: %v", err)
	}
	s.mu.Lock()
	s.ix = ix
	s.mu.Unlock()
	s.logger.Info("index swapped in",
		"keywords", ix.Keywords(),
		"documents", len(s.docIDs),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Search runs a two-keyword top-5 query against the live index.
func (s *Service) Search(kw1, kw2 string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TopSearch(s.ix, kw1, kw2)
}

// LookupKeyword returns the occurrence list for one keyword. The second
// return is false when the keyword is not indexed.
func (s *Service) LookupKeyword(kw string) (index.OccurrenceList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.ix.Lookup(kw)
	if !ok {
		return nil, false
	}
	out := make(index.OccurrenceList, len(list))
	copy(out, list)
	return out, true
}

// Keywords reports the number of distinct keywords in the live index.
func (s *Service) Keywords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.Keywords()
}

// Documents returns the corpus document identifiers in indexing order.
func (s *Service) Documents() []string {
	return s.docIDs
}

// DocumentKeywordCounts reports, per document, how many distinct keywords
// the live index attributes to it.
func (s *Service) DocumentKeywordCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.docIDs))
	s.ix.Walk(func(_ string, occs index.OccurrenceList) {
		for _, o := range occs {
			counts[o.Document]++
		}
	})
	return counts
}
