// Package index owns the lifecycle of the vector index: building it from
// the corpus, persisting it next to the corpus fingerprint, and reusing
// the persisted state when the fingerprint still matches.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"ragplanner/internal/corpus"
	"ragplanner/internal/domain"
	"ragplanner/internal/embedding"
	"ragplanner/internal/textutil"
	"ragplanner/internal/vectorstore"
)

const (
	// SnapshotFile is the persisted index artifact inside the index directory.
	SnapshotFile = "index.json"
	// ChunksFile holds the chunk texts for stores that keep their vectors
	// server-side and therefore have no local snapshot to restore from.
	ChunksFile = "chunks.json"
)

// Summarizer produces a brief overview of the ingested corpus.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Config wires the collaborators of a Manager.
type Config struct {
	DataDir             string
	IndexDir            string
	Loader              *corpus.Loader
	Chunker             domain.Chunker
	Embedder            embedding.Embedder
	Store               vectorstore.Storage
	Summarizer          Summarizer
	SummaryMaxSentences int
	Logger              *log.Logger
}

// Manager builds the index at most once per process. Concurrent callers
// of the build-or-load path are collapsed into a single flight; everyone
// awaits the same result instead of racing to rebuild.
type Manager struct {
	cfg   Config
	fps   *corpus.FingerprintStore
	group singleflight.Group

	mu      sync.RWMutex
	ready   bool
	empty   bool
	summary string
	chunks  []domain.Chunk
}

func NewManager(cfg Config) *Manager {
	if cfg.SummaryMaxSentences <= 0 {
		cfg.SummaryMaxSentences = 5
	}
	return &Manager{cfg: cfg, fps: corpus.NewFingerprintStore(cfg.IndexDir)}
}

// Ready reports whether the index has been built or loaded.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Summary returns the corpus overview, building the index first if needed.
func (m *Manager) Summary() (string, error) {
	if err := m.ensureReady(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary, nil
}

// Search embeds the query and returns the topK most similar chunks.
// A query that embeds to the zero vector, or scores zero against every
// stored vector, falls back to lexical overlap ranking so out-of-vocabulary
// queries still retrieve something.
func (m *Manager) Search(query string, topK int) ([]domain.SearchResult, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	empty := m.empty
	m.mu.RUnlock()
	if empty {
		return nil, nil
	}
	vec, err := m.cfg.Embedder.Embed(query)
	if err != nil {
		return nil, err
	}
	if isZeroVector(vec) {
		return m.lexicalSearch(query, topK), nil
	}
	results, err := m.cfg.Store.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	allZero := true
	for _, r := range results {
		if r.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero {
		return m.lexicalSearch(query, topK), nil
	}
	return results, nil
}

func (m *Manager) ensureReady() error {
	m.mu.RLock()
	ready := m.ready
	m.mu.RUnlock()
	if ready {
		return nil
	}
	_, err, _ := m.group.Do("build", func() (any, error) {
		m.mu.RLock()
		ready := m.ready
		m.mu.RUnlock()
		if ready {
			return nil, nil
		}
		return nil, m.buildOrLoad()
	})
	return err
}

// buildOrLoad reuses the persisted index iff the persisted artifacts exist
// (snapshot for local stores, chunk texts for remote ones) and the stored
// fingerprint equals the current corpus state. Any mismatch, including
// absence of either artifact, triggers a full rebuild.
func (m *Manager) buildOrLoad() error {
	current := corpus.ComputeFingerprint(m.cfg.DataDir)
	if saved, ok := m.fps.Load(); ok && saved == current {
		err := m.loadSnapshot()
		if err == nil {
			return nil
		}
		m.cfg.Logger.Warn("persisted index unusable, rebuilding", "err", err)
	}
	return m.rebuild(current)
}

func (m *Manager) loadSnapshot() error {
	var chunks []domain.Chunk
	if snap, ok := m.cfg.Store.(vectorstore.Snapshotter); ok {
		if err := snap.LoadSnapshot(m.snapshotPath()); err != nil {
			return err
		}
		chunks = m.cfg.Store.Chunks()
	} else {
		// Remote stores (Qdrant) keep their vectors server-side across
		// restarts; a matching fingerprint means the collection is still
		// current, so only the locally persisted chunk texts are restored.
		loaded, err := m.loadChunks()
		if err != nil {
			return err
		}
		chunks = loaded
	}
	if len(chunks) == 0 {
		m.finish(nil, "", true)
		return nil
	}
	// The embedder still needs its corpus statistics to embed queries;
	// re-preparing over the persisted chunk texts is deterministic and
	// skips document parsing and chunk embedding.
	texts := chunkTexts(chunks)
	if err := m.cfg.Embedder.Prepare(texts); err != nil {
		return err
	}
	summary, err := m.cfg.Summarizer.Summarize(strings.Join(texts, "\n"), m.cfg.SummaryMaxSentences)
	if err != nil {
		summary = ""
	}
	m.finish(chunks, summary, false)
	m.cfg.Logger.Info("reusing persisted index", "chunks", len(chunks))
	return nil
}

func (m *Manager) rebuild(currentFingerprint string) error {
	docs, err := m.cfg.Loader.Load()
	if err != nil {
		return err
	}
	var chunks []domain.Chunk
	var texts []string
	var corpusText strings.Builder
	for _, d := range docs {
		cs, err := m.cfg.Chunker.Chunk(d)
		if err != nil {
			return err
		}
		for _, ch := range cs {
			chunks = append(chunks, ch)
			texts = append(texts, ch.Text)
		}
		corpusText.WriteString("\n")
		corpusText.WriteString(d.Content)
	}
	if len(chunks) == 0 {
		// Degenerate, always-empty-result index: an empty corpus is not an error.
		m.finish(nil, "", true)
		m.persist(currentFingerprint)
		m.cfg.Logger.Warn("corpus is empty, retrieval will return no context", "data_dir", m.cfg.DataDir)
		return nil
	}
	if err := m.cfg.Embedder.Prepare(texts); err != nil {
		return err
	}
	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := m.cfg.Embedder.Embed(chunks[i].Text)
		if err != nil {
			return err
		}
		vectors[i] = vec
	}
	dimension := m.cfg.Embedder.Dimension()
	if dimension == 0 && len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	if err := m.cfg.Store.Clear(); err != nil {
		return err
	}
	if err := m.cfg.Store.Init(dimension); err != nil {
		return err
	}
	if err := m.cfg.Store.Upsert(chunks, vectors); err != nil {
		return err
	}
	summary, err := m.cfg.Summarizer.Summarize(corpusText.String(), m.cfg.SummaryMaxSentences)
	if err != nil {
		summary = ""
	}
	m.finish(chunks, summary, false)
	m.persist(currentFingerprint)
	m.cfg.Logger.Info("vector index rebuilt", "documents", len(docs), "chunks", len(chunks))
	return nil
}

// persist saves the snapshot and the fingerprint. Failures are logged and
// ignored: the freshly built in-memory index stays usable for this run.
func (m *Manager) persist(fingerprint string) {
	if snap, ok := m.cfg.Store.(vectorstore.Snapshotter); ok {
		if err := snap.SaveSnapshot(m.snapshotPath()); err != nil {
			m.cfg.Logger.Warn("could not persist index snapshot", "err", err)
		}
	} else if err := m.saveChunks(); err != nil {
		m.cfg.Logger.Warn("could not persist chunk texts", "err", err)
	}
	if fingerprint == "" {
		return
	}
	if err := m.fps.Save(fingerprint); err != nil {
		m.cfg.Logger.Warn("could not persist corpus fingerprint", "err", err)
	}
}

func (m *Manager) finish(chunks []domain.Chunk, summary string, empty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = chunks
	m.summary = summary
	m.empty = empty
	m.ready = true
}

func (m *Manager) snapshotPath() string {
	return filepath.Join(m.cfg.IndexDir, SnapshotFile)
}

func (m *Manager) chunksPath() string {
	return filepath.Join(m.cfg.IndexDir, ChunksFile)
}

// saveChunks persists the chunk texts via a temp file and rename, mirroring
// the fingerprint write.
func (m *Manager) saveChunks() error {
	m.mu.RLock()
	data, err := json.Marshal(m.chunks)
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.cfg.IndexDir, 0o755); err != nil {
		return err
	}
	tmp := m.chunksPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.chunksPath())
}

func (m *Manager) loadChunks() ([]domain.Chunk, error) {
	data, err := os.ReadFile(m.chunksPath())
	if err != nil {
		return nil, err
	}
	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (m *Manager) lexicalSearch(query string, topK int) []domain.SearchResult {
	m.mu.RLock()
	chunks := m.chunks
	m.mu.RUnlock()
	qset := textutil.TokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(chunks))
	for i, ch := range chunks {
		scores[i] = pair{i, overlapOchiai(qset, ch.Text)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK <= 0 {
		topK = 5
	}
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		p := scores[i]
		out = append(out, domain.SearchResult{Chunk: chunks[p.idx], Score: p.score})
	}
	return out
}

// overlapOchiai computes |A∩B| / sqrt(|A||B|) over distinct token sets.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := textutil.TokenSet(text)
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / (sqrt(float64(len(qset))) * sqrt(float64(len(seen))))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 6; i++ {
		z = 0.5 * (z + x/z)
	}
	return z
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	return texts
}

func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
