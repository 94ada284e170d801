// Package searcher answers two-keyword disjunctive queries against a built
// index, returning at most five distinct documents ranked by descending
// frequency.
package searcher

import "github.com/searchlab-dev/keyword-search-engine/internal/index"

// MaxResults caps the number of documents a query returns.
const MaxResults = 5

// TopSearch merges the occurrence lists of kw1 and kw2 into a ranked list
// of up to MaxResults distinct document identifiers. Both keywords are
// exact index keys; callers normalize them first if needed. Frequency ties
// go to kw1's document. A document appearing under both keywords is emitted
// once, at its higher-ranked position. No matches yields an empty slice,
// never an error.
func TopSearch(ix *index.Index, kw1, kw2 string) []string {
	docs := make([]string, 0, MaxResults)

	first, ok1 := ix.Lookup(kw1)
	second, ok2 := ix.Lookup(kw2)

	switch {
	case !ok1 && !ok2:
		return docs
	case ok1 && !ok2:
		return drain(docs, first, 0)
	case ok2 && !ok1:
		return drain(docs, second, 0)
	}

	i, j := 0, 0
	for i < len(first) && j < len(second) && len(docs) < MaxResults {
		switch {
		case first[i].Frequency > second[j].Frequency:
			docs = appendUnique(docs, first[i].Document)
			i++
		case first[i].Frequency < second[j].Frequency:
			docs = appendUnique(docs, second[j].Document)
			j++
		default:
			// Tie: kw1's document first. Pointers advance whether or not
			// the document was actually appended.
			docs = appendUnique(docs, first[i].Document)
			if len(docs) < MaxResults {
				docs = appendUnique(docs, second[j].Document)
			}
			i++
			j++
		}
	}
	docs = drain(docs, first, i)
	docs = drain(docs, second, j)
	return docs
}

// drain appends remaining occurrences from occs[from:] until the result is
// full, skipping documents already present.
func drain(docs []string, occs index.OccurrenceList, from int) []string {
	for k := from; k < len(occs) && len(docs) < MaxResults; k++ {
		docs = appendUnique(docs, occs[k].Document)
	}
	return docs
}

// appendUnique appends doc unless it is already in docs.
func appendUnique(docs []string, doc string) []string {
	for _, d := range docs {
		if d == doc {
			return docs
		}
	}
	return append(docs, doc)
}
