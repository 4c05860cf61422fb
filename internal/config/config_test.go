package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Corpus.DataDir)
	assert.Equal(t, "vector_db", cfg.Corpus.IndexDir)
	assert.Equal(t, 900, cfg.Chunker.WindowChars)
	assert.Equal(t, 150, cfg.Chunker.OverlapChars)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Contains(t, cfg.Router.PlanningKeywords, "πλάνο")
	assert.Contains(t, cfg.Router.QuestionKeywords, "τι")
	assert.Equal(t, 60, cfg.LLM.TimeoutSecs)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.DefaultModel)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus:\n  data_dir: docs\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Corpus.DataDir)
	assert.Equal(t, "vector_db", cfg.Corpus.IndexDir)
	assert.NotEmpty(t, cfg.Router.PlanningKeywords)
	assert.Equal(t, "OPENROUTER_API_KEY", cfg.LLM.APIKeyEnv)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Corpus.DataDir = "corpus"
	cfg.Retrieval.TopK = 7

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "corpus", loaded.Corpus.DataDir)
	assert.Equal(t, 7, loaded.Retrieval.TopK)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
