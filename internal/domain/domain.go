package domain

// Document is a normalized text unit loaded from the corpus.
// Paginated formats (PDF) produce one Document per page.
type Document struct {
	ID      string
	Source  string // base name of the originating corpus file
	Path    string
	Page    int // 1-based page number; 0 for formats without pages
	Content string
}

// Chunk is a bounded text window extracted from a document,
// the unit of embedding and retrieval. It carries the provenance
// of the document it was cut from.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Source     string
	Page       int
	Text       string
	Index      int
}

// SearchResult is a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Route is the outcome of classifying a user utterance.
type Route int

const (
	// RouteQuestionAnswering answers directly from retrieved context.
	RouteQuestionAnswering Route = iota
	// RoutePlanning runs the Planner -> Critic -> Executor pipeline.
	RoutePlanning
)

func (r Route) String() string {
	if r == RouteQuestionAnswering {
		return "question_answering"
	}
	return "planning"
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}
