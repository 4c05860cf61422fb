package corpus

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger { return log.New(io.Discard) }

func TestLoaderReadsTextFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("IoT security basics."), 0o644))

	docs, err := NewLoader(dir, testLogger()).Load()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].Source)
	assert.Equal(t, 0, docs[0].Page)
	assert.Equal(t, "IoT security basics.", docs[0].Content)
	assert.NotEmpty(t, docs[0].ID)
}

func TestLoaderSkipsUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("kept"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.docx"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.png"), []byte{0x89, 0x50}, 0o644))

	docs, err := NewLoader(dir, testLogger()).Load()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "keep.txt", docs[0].Source)
}

func TestLoaderSkipsBrokenPDFWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a real pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("still here"), 0o644))

	docs, err := NewLoader(dir, testLogger()).Load()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ok.txt", docs[0].Source)
}

func TestLoaderCreatesMissingDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	docs, err := NewLoader(dir, testLogger()).Load()
	require.NoError(t, err)
	assert.Empty(t, docs)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
