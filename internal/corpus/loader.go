// Package corpus loads the document corpus and tracks its fingerprint.
package corpus

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"

	"ragplanner/internal/domain"
)

// Loader reads corpus files into normalized documents. Recognized
// extensions are .txt (UTF-8 plain text) and .pdf (text-extractable);
// everything else is silently skipped.
type Loader struct {
	dataDir string
	log     *log.Logger
}

func NewLoader(dataDir string, logger *log.Logger) *Loader {
	return &Loader{dataDir: dataDir, log: logger}
}

// Load returns one document per text file and one per PDF page.
// The data directory is created when missing; an unreadable file is
// skipped with a warning, never aborting the whole ingestion.
func (l *Loader) Load() ([]domain.Document, error) {
	if err := os.MkdirAll(l.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []domain.Document
	for _, name := range names {
		path := filepath.Join(l.dataDir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt":
			doc, err := l.loadText(path, name)
			if err != nil {
				l.log.Warn("skipping unreadable text file", "file", name, "err", err)
				continue
			}
			docs = append(docs, doc)
		case ".pdf":
			pages, err := l.loadPDF(path, name)
			if err != nil {
				l.log.Warn("skipping unreadable pdf", "file", name, "err", err)
				continue
			}
			docs = append(docs, pages...)
		}
	}
	return docs, nil
}

func (l *Loader) loadText(path, name string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		ID:      hashString(name),
		Source:  name,
		Path:    path,
		Content: string(data),
	}, nil
}

// loadPDF extracts plain text per page. Scanned-image PDFs produce empty
// pages, which are dropped; that is an accepted limitation, not an error.
func (l *Loader) loadPDF(path, name string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []domain.Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			l.log.Warn("skipping pdf page", "file", name, "page", i, "err", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			ID:      hashString(fmt.Sprintf("%s#%d", name, i)),
			Source:  name,
			Path:    path,
			Page:    i,
			Content: text,
		})
	}
	return docs, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
