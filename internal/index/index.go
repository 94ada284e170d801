// Package index implements the global keyword index: a mapping from
// keyword to a frequency-descending list of per-document occurrences,
// maintained incrementally by positioned insertion rather than re-sorting.
package index

// Index is the global keyword index. It is built by a single writer during
// the indexing phase and must be treated as read-only once queries begin;
// callers that interleave the two phases need external synchronization.
type Index struct {
	keywords map[string]OccurrenceList
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		keywords: make(map[string]OccurrenceList),
	}
}

// Merge folds one document's local keyword map into the index. Keywords not
// yet present get a singleton list; keywords already present have the new
// occurrence appended and repositioned into descending-frequency order.
// Merge cannot fail.
func (ix *Index) Merge(local map[string]*Occurrence) {
	for kw, occ := range local {
		list, ok := ix.keywords[kw]
		if !ok {
			ix.keywords[kw] = OccurrenceList{*occ}
			continue
		}
		list = append(list, *occ)
		insertLast(list)
		ix.keywords[kw] = list
	}
}

// insertLast moves the last element of occs into its descending-frequency
// position. Elements 0..len-2 are already ordered. The position is found by
// binary search over that prefix; a probe that hits an equal frequency
// stops immediately and the new occurrence is inserted right after it —
// after the first equal entry the search happens to probe, not necessarily
// the last one. The returned slice is the sequence of probed midpoints,
// used only by tests.
func insertLast(occs OccurrenceList) []int {
	probes := make([]int, 0, 4)
	last := occs[len(occs)-1]

	lo, hi := 0, len(occs)-2
	for lo < hi {
		mid := (lo + hi) / 2
		probes = append(probes, mid)
		switch {
		case occs[mid].Frequency > last.Frequency:
			lo = mid + 1
		case occs[mid].Frequency == last.Frequency:
			lo, hi = mid, mid
		default:
			hi = mid
		}
	}

	pos := lo
	if last.Frequency <= occs[pos].Frequency {
		pos++
	}
	copy(occs[pos+1:], occs[pos:len(occs)-1])
	occs[pos] = last
	return probes
}

// Lookup returns the occurrence list for a keyword. The keyword is used as
// an exact key; callers supply it already in canonical form. The second
// return is false when the keyword is not indexed.
func (ix *Index) Lookup(keyword string) (OccurrenceList, bool) {
	list, ok := ix.keywords[keyword]
	return list, ok
}

// Keywords returns the number of distinct keywords in the index.
func (ix *Index) Keywords() int {
	return len(ix.keywords)
}

// Walk calls fn for every keyword and its occurrence list. Iteration order
// is unspecified.
func (ix *Index) Walk(fn func(keyword string, occs OccurrenceList)) {
	for kw, list := range ix.keywords {
		fn(kw, list)
	}
}
