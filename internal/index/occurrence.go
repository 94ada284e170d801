package index

// Occurrence records one document's frequency for one keyword. Document
// identity never changes; Frequency is only incremented while a single
// document scan accumulates counts, never after the occurrence has been
// merged into an Index.
type Occurrence struct {
	Document  string `json:"document"`
	Frequency int    `json:"frequency"`
}

// OccurrenceList is a keyword's occurrences ordered by descending
// frequency. A newly merged occurrence lands directly after the first
// equal-frequency entry the binary search probes, so among several equal
// frequencies only adjacent pairs keep merge order; a long run of ties is
// not globally ordered by arrival.
type OccurrenceList []Occurrence
