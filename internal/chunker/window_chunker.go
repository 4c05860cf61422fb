package chunker

import (
	"strconv"
	"strings"

	"ragplanner/internal/domain"
)

// Default window sizes, in characters.
const (
	DefaultWindowChars  = 900
	DefaultOverlapChars = 150
)

// WindowChunker splits document text into fixed-size character windows.
// Each chunk after the first repeats the trailing overlap characters of
// its predecessor, bounding context loss at window boundaries.
type WindowChunker struct {
	windowChars  int
	overlapChars int
}

func NewWindowChunker(windowChars, overlapChars int) *WindowChunker {
	if windowChars <= 0 {
		windowChars = DefaultWindowChars
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= windowChars {
		// keep forward progress
		overlapChars = windowChars / 6
	}
	return &WindowChunker{windowChars: windowChars, overlapChars: overlapChars}
}

func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	runes := []rune(strings.TrimSpace(document.Content))
	if len(runes) == 0 {
		return nil, nil
	}
	step := c.windowChars - c.overlapChars
	var chunks []domain.Chunk
	idx := 0
	for start := 0; start < len(runes); start += step {
		end := start + c.windowChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Source:     document.Source,
			Page:       document.Page,
			Text:       string(runes[start:end]),
			Index:      idx,
		})
		if end == len(runes) {
			break
		}
		idx++
	}
	return chunks, nil
}
