package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FingerprintFile is the sentinel file name stored next to the index snapshot.
const FingerprintFile = "_data_fingerprint.txt"

// ComputeFingerprint digests the identity of every regular file in dataDir:
// name, size and modification time, in sorted name order. Two corpora with
// identical file sets and metadata produce identical fingerprints; any
// addition, removal or metadata change alters it. A missing or empty
// directory yields the empty string, not an error.
func ComputeFingerprint(dataDir string) string {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	var lines []string
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dataDir, name))
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s|%d|%d", name, info.Size(), info.ModTime().Unix()))
	}
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// FingerprintStore persists the corpus fingerprint next to the index snapshot.
type FingerprintStore struct {
	path string
}

func NewFingerprintStore(indexDir string) *FingerprintStore {
	return &FingerprintStore{path: filepath.Join(indexDir, FingerprintFile)}
}

// Load returns the persisted fingerprint, or ok=false when absent or empty.
func (s *FingerprintStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	fp := strings.TrimSpace(string(data))
	if fp == "" {
		return "", false
	}
	return fp, true
}

// Save writes the fingerprint via a temp file and rename, so a partial write
// can never be mistaken for a valid fingerprint.
func (s *FingerprintStore) Save(fp string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(fp), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
