package vectorstore

import "ragplanner/internal/domain"

// Storage persists vectors and supports similarity search.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	Chunks() []domain.Chunk
	Clear() error
}

// Snapshotter is implemented by stores whose contents can be persisted
// locally and restored without re-embedding the corpus. Remote stores
// (Qdrant) keep their points server-side and do not implement it.
type Snapshotter interface {
	SaveSnapshot(path string) error
	LoadSnapshot(path string) error
}
