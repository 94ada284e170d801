package searcher

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/searchlab-dev/keyword-search-engine/internal/indexer"
	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
)

type mapLoader map[string]string

func (l mapLoader) LoadDocument(ctx context.Context, id string) ([]string, error) {
	text, ok := l[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "document %s", id)
	}
	return strings.Fields(text), nil
}

func newTestService(loader mapLoader, docIDs []string) *Service {
	engine := indexer.NewEngine(loader, []string{"the", "a"})
	return NewService(engine, docIDs)
}

func TestServiceReindexAndSearch(t *testing.T) {
	svc := newTestService(mapLoader{
		"d1": "whale whale whale ocean",
		"d2": "ocean ocean whale",
	}, []string{"d1", "d2"})

	if got := svc.Search("whale", "ocean"); len(got) != 0 {
		t.Errorf("search before reindex returned %v", got)
	}
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	got := svc.Search("whale", "ocean")
	if len(got) != 2 || got[0] != "d1" || got[1] != "d2" {
		t.Errorf("Search = %v, want [d1 d2]", got)
	}
}

func TestServiceReindexFailureKeepsOldIndex(t *testing.T) {
	loader := mapLoader{"d1": "whale"}
	svc := newTestService(loader, []string{"d1"})
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	svc.docIDs = []string{"d1", "missing"}
	if err := svc.Reindex(context.Background()); err == nil {
		t.Fatal("expected reindex error for missing document")
	}

	if got := svc.Search("whale", "whale"); len(got) != 1 || got[0] != "d1" {
		t.Errorf("previous index lost after failed reindex: %v", got)
	}
}

func TestServiceLookupKeywordCopies(t *testing.T) {
	svc := newTestService(mapLoader{"d1": "coral coral"}, []string{"d1"})
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	occs, ok := svc.LookupKeyword("coral")
	if !ok || len(occs) != 1 || occs[0].Frequency != 2 {
		t.Fatalf("LookupKeyword = (%v, %v)", occs, ok)
	}
	occs[0].Frequency = 99

	again, _ := svc.LookupKeyword("coral")
	if again[0].Frequency != 2 {
		t.Error("LookupKeyword returned a view into the live index")
	}
}

func TestServiceDocumentKeywordCounts(t *testing.T) {
	svc := newTestService(mapLoader{
		"d1": "whale ocean deep",
		"d2": "whale",
	}, []string{"d1", "d2"})
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	counts := svc.DocumentKeywordCounts()
	if counts["d1"] != 3 || counts["d2"] != 1 {
		t.Errorf("DocumentKeywordCounts = %v, want d1:3 d2:1", counts)
	}
}

func TestServiceConcurrentQueriesDuringReindex(t *testing.T) {
	svc := newTestService(mapLoader{
		"d1": "whale ocean",
		"d2": "ocean tide",
	}, []string{"d1", "d2"})
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				svc.Search("whale", "tide")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Reindex(context.Background()); err != nil {
				t.Errorf("concurrent Reindex: %v", err)
			}
		}()
	}
	wg.Wait()
}
