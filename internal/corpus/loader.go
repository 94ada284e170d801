// Package corpus provides the I/O collaborators the indexing core consumes:
// loading a document's raw token stream, the noise-word list, and the file
// listing the corpus documents.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/searchlab-dev/keyword-search-engine/pkg/errors"
)

// DocumentLoader resolves a document identifier to its raw whitespace-
// separated tokens. Implementations return ErrDocumentNotFound when the
// identifier cannot be located.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, id string) ([]string, error)
}

// FSLoader loads documents from the filesystem. Document identifiers are
// paths, resolved relative to Root when not absolute.
type FSLoader struct {
	Root string
}

// NewFSLoader creates a loader rooted at dir. An empty dir means paths are
// used as given.
func NewFSLoader(dir string) *FSLoader {
	return &FSLoader{Root: dir}
}

// LoadDocument reads the file for id and splits it into whitespace tokens.
func (l *FSLoader) LoadDocument(ctx context.Context, id string) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 400, "empty document identifier")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.resolve(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "document %s", id)
		}
		return nil, fmt.Errorf("opening document %s: %w", id, err)
	}
	defer f.Close()

	tokens := make([]string, 0, 256)
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning document %s: %w", id, err)
	}
	return tokens, nil
}

func (l *FSLoader) resolve(id string) string {
	if l.Root == "" || filepath.IsAbs(id) {
		return id
	}
	return filepath.Join(l.Root, id)
}

// LoadNoiseWords reads the noise-word file, one word per line. Blank lines
// are skipped.
func LoadNoiseWords(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "noise-word file %s", path)
		}
		return nil, fmt.Errorf("reading noise words from %s: %w", path, err)
	}
	return lines, nil
}

// LoadDocumentList reads the docs file: one document identifier per line,
// in indexing order. Order matters — it decides equal-frequency tie-breaks
// in the merged index.
func LoadDocumentList(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "document list %s", path)
		}
		return nil, fmt.Errorf("reading document list from %s: %w", path, err)
	}
	return lines, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, 64)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
