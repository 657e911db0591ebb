package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"docchat/internal/domain"
)

// Recursive tries an ordered list of separators from coarsest to finest
// until the resulting pieces fit the size bound. It splits page by page,
// so each chunk keeps the page number of the text it came from.
type Recursive struct {
	separators []string
	chunkSize  int
	overlap    int
}

// Paragraph, line, sentence, then rune window as the last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

func NewRecursive(chunkSize, overlap int) *Recursive {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Recursive{separators: defaultSeparators, chunkSize: chunkSize, overlap: overlap}
}

func (r *Recursive) Split(doc domain.ExtractedDocument) ([]domain.Chunk, error) {
	if r.overlap >= r.chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", r.overlap, r.chunkSize)
	}
	var chunks []domain.Chunk
	idx := 0
	for _, page := range doc.Pages {
		for _, piece := range r.splitText(page.Text, r.separators) {
			chunks = append(chunks, newChunk(doc, page.Number, idx, piece))
			idx++
		}
	}
	return chunks, nil
}

// splitText splits at the coarsest separator, recursing into oversized
// parts. Recursion output already carries its own overlap, so it is passed
// through as-is; only runs of small parts are merged at this level.
func (r *Recursive) splitText(text string, seps []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= r.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return window(text, r.chunkSize, r.overlap)
	}
	sep, rest := seps[0], seps[1:]
	var out, small []string
	flush := func() {
		out = append(out, mergePieces(small, sep, r.chunkSize, r.overlap)...)
		small = small[:0]
	}
	for _, part := range strings.Split(text, sep) {
		if utf8.RuneCountInString(part) <= r.chunkSize {
			small = append(small, part)
			continue
		}
		flush()
		out = append(out, r.splitText(part, rest)...)
	}
	flush()
	return out
}
