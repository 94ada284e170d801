package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/searchlab-dev/keyword-search-engine/internal/index"
	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
)

// mapLoader serves documents from memory, splitting on whitespace.
type mapLoader map[string]string

func (l mapLoader) LoadDocument(ctx context.Context, id string) ([]string, error) {
	text, ok := l[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "document %s", id)
	}
	return strings.Fields(text), nil
}

func TestScanDocumentCountsFrequencies(t *testing.T) {
	loader := mapLoader{
		"whales.txt": "the Deep deep ocean. Deep, whales dive deep! a",
	}
	engine := NewEngine(loader, []string{"the", "a"})

	local, err := engine.ScanDocument(context.Background(), "whales.txt")
	if err != nil {
		t.Fatalf("ScanDocument: %v", err)
	}

	want := map[string]int{
		"deep":   4,
		"ocean":  1,
		"whales": 1,
		"dive":   1,
	}
	got := make(map[string]int, len(local))
	for kw, occ := range local {
		if occ.Document != "whales.txt" {
			t.Errorf("occurrence for %q has document %q", kw, occ.Document)
		}
		got[kw] = occ.Frequency
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("local keyword map mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDocumentEmptyID(t *testing.T) {
	engine := NewEngine(mapLoader{}, nil)
	_, err := engine.ScanDocument(context.Background(), "  ")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput, got %v", err)
	}
}

func TestBuildIndexOrdersAndMerges(t *testing.T) {
	loader := mapLoader{
		"a.txt": "ocean ocean ocean ocean",
		"b.txt": "ocean ocean ocean ocean",
		"c.txt": "ocean ocean whale",
	}
	engine := NewEngine(loader, nil)

	ix, err := engine.BuildIndex(context.Background(), []string{"a.txt", "b.txt", "c.txt"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	got, ok := ix.Lookup("ocean")
	if !ok {
		t.Fatal("ocean missing from index")
	}
	want := index.OccurrenceList{
		{Document: "a.txt", Frequency: 4},
		{Document: "b.txt", Frequency: 4},
		{Document: "c.txt", Frequency: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ocean occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIndexAbortsOnMissingDocument(t *testing.T) {
	loader := mapLoader{
		"a.txt": "ocean",
	}
	engine := NewEngine(loader, nil)

	_, err := engine.BuildIndex(context.Background(), []string{"a.txt", "missing.txt", "a.txt"})
	if !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("want ErrDocumentNotFound, got %v", err)
	}
}

func TestBuildIndexSkipsNoiseAndNonKeywords(t *testing.T) {
	loader := mapLoader{
		"doc.txt": "the quick brown fox fox! 42 a1b x",
	}
	engine := NewEngine(loader, []string{"the"})

	ix, err := engine.BuildIndex(context.Background(), []string{"doc.txt"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if _, ok := ix.Lookup("the"); ok {
		t.Error("noise word was indexed")
	}
	if _, ok := ix.Lookup("x"); ok {
		t.Error("single character was indexed")
	}
	occs, ok := ix.Lookup("fox")
	if !ok || occs[0].Frequency != 2 {
		t.Errorf("fox occurrences = %+v, want frequency 2", occs)
	}
	if got := ix.Keywords(); got != 3 {
		t.Errorf("Keywords() = %d, want 3 (quick, brown, fox)", got)
	}
}
