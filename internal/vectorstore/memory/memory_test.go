package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragplanner/internal/domain"
)

func chunk(id string, idx int) domain.Chunk {
	return domain.Chunk{DocumentID: id, ChunkID: id + ":0", Source: id + ".txt", Text: "text " + id, Index: idx}
}

func TestStorageSearchRanksByCosine(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("a", 0), chunk("b", 0), chunk("c", 0)},
		[][]float64{{1, 0}, {0, 1}, {0.7071, 0.7071}},
	))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.DocumentID)
	assert.Equal(t, "c", results[1].Chunk.DocumentID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestStorageValidation(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(0))
	require.NoError(t, s.Init(2))
	assert.Error(t, s.Upsert([]domain.Chunk{chunk("a", 0)}, nil))
	assert.Error(t, s.Upsert([]domain.Chunk{chunk("a", 0)}, [][]float64{{1, 2, 3}}))
}

func TestStorageSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	s := NewStorage()
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{
		{DocumentID: "a", ChunkID: "a:0", Source: "a.pdf", Page: 2, Text: "first", Index: 0},
		{DocumentID: "b", ChunkID: "b:0", Source: "b.txt", Text: "second", Index: 0},
	}
	require.NoError(t, s.Upsert(chunks, [][]float64{{1, 0}, {0, 1}}))
	require.NoError(t, s.SaveSnapshot(path))

	restored := NewStorage()
	require.NoError(t, restored.LoadSnapshot(path))
	assert.Equal(t, chunks, restored.Chunks())

	results, err := restored.Search([]float64{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Chunk.DocumentID)
	assert.Equal(t, 2, chunks[0].Page, "provenance survives the round trip")
}

func TestStorageLoadSnapshotRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dimension":2,"chunks":[{"DocumentID":"a"}],"vectors":[]}`), 0o644))

	s := NewStorage()
	assert.Error(t, s.LoadSnapshot(path))

	assert.Error(t, s.LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")))
}
