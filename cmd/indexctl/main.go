// indexctl builds a keyword index from a corpus on disk and inspects it
// from the command line: dump a keyword's occurrences, check how a word
// normalizes, or run a two-keyword top-5 query.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/searchlab-dev/keyword-search-engine/internal/corpus"
	"github.com/searchlab-dev/keyword-search-engine/internal/index"
	"github.com/searchlab-dev/keyword-search-engine/internal/indexer"
	"github.com/searchlab-dev/keyword-search-engine/internal/searcher"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
)

func main() {
	var (
		docsFile  = flag.String("docs", "corpus/docs.txt", "file listing document paths, one per line")
		noiseFile = flag.String("noise", "corpus/noisewords.txt", "noise-word file, one word per line")
		root      = flag.String("root", "", "directory document paths are resolved against")
		word      = flag.String("normalize", "", "print the normalized form of a word and exit")
		keyword   = flag.String("keyword", "", "print the occurrence list of a keyword and exit")
		kw1       = flag.String("kw1", "", "first keyword of a top-5 query")
		kw2       = flag.String("kw2", "", "second keyword of a top-5 query")
		logLevel  = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger.Setup(*logLevel, "text")

	noiseWords, err := corpus.LoadNoiseWords(*noiseFile)
	if err != nil {
		fatal("loading noise words: %v", err)
	}
	engine := indexer.NewEngine(corpus.NewFSLoader(*root), noiseWords)

	if *word != "" {
		if kw, ok := engine.Normalizer().Normalize(*word); ok {
			fmt.Println(kw)
		} else {
			fmt.Printf("%q is not a keyword\n", *word)
		}
		return
	}

	docIDs, err := corpus.LoadDocumentList(*docsFile)
	if err != nil {
		fatal("loading document list: %v", err)
	}
	ix, err := engine.BuildIndex(context.Background(), docIDs)
	if err != nil {
		fatal("indexing: %v", err)
	}

	switch {
	case *keyword != "":
		kw := canonical(engine, *keyword)
		occs, ok := ix.Lookup(kw)
		if !ok {
			fatal("keyword %q not indexed", kw)
		}
		fmt.Printf("%s:\n", kw)
		for _, occ := range occs {
			fmt.Printf("  %-40s %d\n", occ.Document, occ.Frequency)
		}

	case *kw1 != "" || *kw2 != "":
		docs := searcher.TopSearch(ix, canonical(engine, *kw1), canonical(engine, *kw2))
		if len(docs) == 0 {
			fmt.Println("no matches")
			return
		}
		for rank, doc := range docs {
			fmt.Printf("%d. %s\n", rank+1, doc)
		}

	default:
		// No query given: dump the whole index, keywords sorted.
		type entry struct {
			kw   string
			occs index.OccurrenceList
		}
		entries := make([]entry, 0, ix.Keywords())
		ix.Walk(func(kw string, occs index.OccurrenceList) {
			entries = append(entries, entry{kw: kw, occs: occs})
		})
		sort.Slice(entries, func(i, j int) bool { return entries[i].kw < entries[j].kw })
		for _, e := range entries {
			fmt.Printf("%s:", e.kw)
			for _, occ := range e.occs {
				fmt.Printf(" (%s,%d)", occ.Document, occ.Frequency)
			}
			fmt.Println()
		}
	}
}

func canonical(engine *indexer.Engine, word string) string {
	if kw, ok := engine.Normalizer().Normalize(word); ok {
		return kw
	}
	return word
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
