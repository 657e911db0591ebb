// Package splitter provides the chunking strategies: fixed-separator and
// recursive splitting, both bounded by a chunk size with a configurable
// tail overlap between consecutive chunks.
package splitter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"docchat/internal/domain"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 200
)

// mergePieces greedily packs pieces into chunks up to chunkSize runes,
// joining with sep and backfilling overlap runes from the tail of the
// previous chunk. Pieces longer than chunkSize are hard-windowed.
func mergePieces(pieces []string, sep string, chunkSize, overlap int) []string {
	sepLen := utf8.RuneCountInString(sep)
	var out []string
	cur := ""
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		pieceLen := utf8.RuneCountInString(piece)
		if pieceLen > chunkSize {
			if strings.TrimSpace(cur) != "" {
				out = append(out, cur)
			}
			w := window(piece, chunkSize, overlap)
			out = append(out, w[:len(w)-1]...)
			cur = w[len(w)-1]
			continue
		}
		switch {
		case cur == "":
			cur = piece
		case utf8.RuneCountInString(cur)+sepLen+pieceLen <= chunkSize:
			cur += sep + piece
		default:
			out = append(out, cur)
			tail := tailRunes(cur, overlap)
			if tail != "" && utf8.RuneCountInString(tail)+sepLen+pieceLen <= chunkSize {
				cur = tail + sep + piece
			} else {
				cur = piece
			}
		}
	}
	if strings.TrimSpace(cur) != "" {
		out = append(out, cur)
	}
	return out
}

// window slides a rune window of chunkSize over text, stepping by
// chunkSize-overlap. Callers must guarantee overlap < chunkSize.
func window(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	step := chunkSize - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func newChunk(doc domain.ExtractedDocument, page, idx int, text string) domain.Chunk {
	return domain.Chunk{
		DocumentID: doc.DocumentID,
		ChunkID:    doc.DocumentID + ":" + strconv.Itoa(idx),
		Text:       text,
		Index:      idx,
		Page:       page,
	}
}
