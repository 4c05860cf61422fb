package index

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragplanner/internal/chunker"
	"ragplanner/internal/corpus"
	"ragplanner/internal/domain"
	"ragplanner/internal/embedding/tfidf"
	"ragplanner/internal/summarizer"
	"ragplanner/internal/vectorstore"
	"ragplanner/internal/vectorstore/memory"
)

// countingEmbedder wraps the TF-IDF embedder to observe how much work a
// build actually performed.
type countingEmbedder struct {
	inner    *tfidf.Embedder
	mu       sync.Mutex
	prepares int
	embeds   int
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{inner: tfidf.NewEmbedder()}
}

func (c *countingEmbedder) Name() string   { return c.inner.Name() }
func (c *countingEmbedder) Dimension() int { return c.inner.Dimension() }

func (c *countingEmbedder) Prepare(corpus []string) error {
	c.mu.Lock()
	c.prepares++
	c.mu.Unlock()
	return c.inner.Prepare(corpus)
}

func (c *countingEmbedder) Embed(text string) ([]float64, error) {
	c.mu.Lock()
	c.embeds++
	c.mu.Unlock()
	return c.inner.Embed(text)
}

func (c *countingEmbedder) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepares, c.embeds
}

func writeCorpus(t *testing.T, dataDir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}
}

func newTestManager(t *testing.T, dataDir, indexDir string) (*Manager, *countingEmbedder) {
	t.Helper()
	return newTestManagerWithStore(t, dataDir, indexDir, memory.NewStorage())
}

func newTestManagerWithStore(t *testing.T, dataDir, indexDir string, store vectorstore.Storage) (*Manager, *countingEmbedder) {
	t.Helper()
	logger := log.New(io.Discard)
	emb := newCountingEmbedder()
	m := NewManager(Config{
		DataDir:    dataDir,
		IndexDir:   indexDir,
		Loader:     corpus.NewLoader(dataDir, logger),
		Chunker:    chunker.NewWindowChunker(120, 20),
		Embedder:   emb,
		Store:      store,
		Summarizer: summarizer.NewFrequencySummarizer(),
		Logger:     logger,
	})
	return m, emb
}

// remoteStore mimics a server-side vector store: it satisfies Storage but
// not Snapshotter, and its contents outlive any single Manager.
type remoteStore struct {
	inner *memory.Storage
}

func (r *remoteStore) Init(dimension int) error { return r.inner.Init(dimension) }
func (r *remoteStore) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	return r.inner.Upsert(chunks, vectors)
}
func (r *remoteStore) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	return r.inner.Search(vector, topK)
}
func (r *remoteStore) Chunks() []domain.Chunk { return r.inner.Chunks() }
func (r *remoteStore) Clear() error           { return r.inner.Clear() }

var testFiles = map[string]string{
	"security.txt": "Network security covers firewalls and intrusion detection. Threats include malware and phishing attacks against devices.",
	"iot.txt":      "IoT devices need firmware updates. Weak passwords expose sensors to attackers and botnets.",
}

func TestManagerBuildsOnceAndPersists(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	m, emb := newTestManager(t, dataDir, indexDir)
	results, err := m.Search("firewalls security", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	_, err = os.Stat(filepath.Join(indexDir, SnapshotFile))
	assert.NoError(t, err, "snapshot should be persisted")
	_, err = os.Stat(filepath.Join(indexDir, corpus.FingerprintFile))
	assert.NoError(t, err, "fingerprint should be persisted")

	prepares, embedsAfterFirst := emb.counts()
	assert.Equal(t, 1, prepares)

	// Second query must not trigger a rebuild: exactly one extra embed (the query).
	_, err = m.Search("malware", 4)
	require.NoError(t, err)
	prepares, embeds := emb.counts()
	assert.Equal(t, 1, prepares)
	assert.Equal(t, embedsAfterFirst+1, embeds)
}

func TestManagerReusesPersistedIndexWhenFingerprintMatches(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	first, _ := newTestManager(t, dataDir, indexDir)
	_, err := first.Search("firewalls", 4)
	require.NoError(t, err)

	// Fresh process: new manager, store and embedder over the same artifacts.
	second, emb := newTestManager(t, dataDir, indexDir)
	results, err := second.Search("firewalls", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	_, embeds := emb.counts()
	assert.Equal(t, 1, embeds, "reuse must embed only the query, never the chunks")
}

func TestManagerReusesRemoteCollectionWhenFingerprintMatches(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	// The store instance is shared across both managers, the way a Qdrant
	// collection survives process restarts.
	server := &remoteStore{inner: memory.NewStorage()}

	first, _ := newTestManagerWithStore(t, dataDir, indexDir, server)
	_, err := first.Search("firewalls", 4)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(indexDir, ChunksFile))
	require.NoError(t, err, "chunk texts should be persisted for non-snapshot stores")

	second, emb := newTestManagerWithStore(t, dataDir, indexDir, server)
	results, err := second.Search("firewalls", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	_, embeds := emb.counts()
	assert.Equal(t, 1, embeds, "a matching fingerprint must not re-embed the corpus into a remote store")

	// The restored chunk texts also back the lexical fallback.
	results, err = second.Search("ξζψωφ αγνωστολεξη", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestManagerRebuildsWhenCorpusChanges(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	first, _ := newTestManager(t, dataDir, indexDir)
	_, err := first.Search("firewalls", 4)
	require.NoError(t, err)

	writeCorpus(t, dataDir, map[string]string{"extra.txt": "New document about incident response runbooks."})

	second, emb := newTestManager(t, dataDir, indexDir)
	results, err := second.Search("incident response", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	_, embeds := emb.counts()
	assert.Greater(t, embeds, 1, "fingerprint mismatch must trigger a full rebuild")
}

func TestManagerEmptyCorpusYieldsDegenerateIndex(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")

	m, _ := newTestManager(t, dataDir, indexDir)
	results, err := m.Search("anything", 4)
	require.NoError(t, err)
	assert.Empty(t, results)

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestManagerConcurrentCallersShareOneBuild(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	m, emb := newTestManager(t, dataDir, indexDir)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Search("firewalls", 4)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	prepares, _ := emb.counts()
	assert.Equal(t, 1, prepares, "concurrent callers must share a single build")
}

func TestManagerLexicalFallbackForOutOfVocabularyQuery(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	indexDir := filepath.Join(t.TempDir(), "vector_db")
	writeCorpus(t, dataDir, testFiles)

	m, _ := newTestManager(t, dataDir, indexDir)
	results, err := m.Search("ξζψωφ αγνωστολεξη", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2, "zero-vector queries fall back to lexical ranking")
}
