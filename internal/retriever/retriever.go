// Package retriever formats similarity-search results into the context
// block supplied to completion prompts.
package retriever

import (
	"fmt"
	"strings"

	"ragplanner/internal/domain"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 4

// Searcher is the index-facing contract of the retriever.
type Searcher interface {
	Search(query string, topK int) ([]domain.SearchResult, error)
}

// Retriever wraps the vector index with a top-k query contract.
type Retriever struct {
	index Searcher
}

func New(index Searcher) *Retriever {
	return &Retriever{index: index}
}

// RetrieveContext returns the top-k chunks rendered as a numbered,
// provenance-labeled block:
//
//	[1] source.pdf (page 3)
//	<chunk text>
//
//	[2] notes.txt
//	<chunk text>
//
// The first call triggers index construction; an empty result set yields
// the empty string, not an error.
func (r *Retriever) RetrieveContext(query string, k int) (string, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	results, err := r.index.Search(query, k)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(results))
	for i, res := range results {
		loc := res.Chunk.Source
		if loc == "" {
			loc = "unknown"
		}
		if res.Chunk.Page > 0 {
			loc = fmt.Sprintf("%s (page %d)", loc, res.Chunk.Page)
		}
		parts = append(parts, fmt.Sprintf("[%d] %s\n%s", i+1, loc, res.Chunk.Text))
	}
	return strings.Join(parts, "\n\n"), nil
}
