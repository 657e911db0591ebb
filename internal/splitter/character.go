package splitter

import (
	"fmt"
	"strings"

	"docchat/internal/domain"
)

// Character splits on a fixed separator, then greedily packs the resulting
// pieces into chunks up to the size bound. It works over the document's
// concatenated text, so page boundaries do not interrupt the overlap.
type Character struct {
	separator string
	chunkSize int
	overlap   int
}

func NewCharacter(separator string, chunkSize, overlap int) *Character {
	if separator == "" {
		separator = "\n"
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Character{separator: separator, chunkSize: chunkSize, overlap: overlap}
}

func (c *Character) Split(doc domain.ExtractedDocument) ([]domain.Chunk, error) {
	// step = size - overlap must stay positive or windowing never advances.
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.overlap, c.chunkSize)
	}
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	page := 0
	if len(doc.Pages) == 1 {
		page = doc.Pages[0].Number
	}
	var chunks []domain.Chunk
	for idx, piece := range mergePieces(strings.Split(text, c.separator), c.separator, c.chunkSize, c.overlap) {
		chunks = append(chunks, newChunk(doc, page, idx, piece))
	}
	return chunks, nil
}
