// Package embedding defines the vectorization contract shared by the
// local TF-IDF embedder and the remote embeddings client.
package embedding

// Embedder turns text into the vectors the index stores and searches.
// Prepare runs once over the chunk texts before any Embed call; local
// implementations derive their vocabulary from it, remote ones treat it
// as a no-op. Dimension may be zero until the first vector is produced.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}
