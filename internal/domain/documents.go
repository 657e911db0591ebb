package domain

import "strings"

// RawDocument is an uploaded document payload with its filename.
// It is consumed by extraction and not retained afterwards.
type RawDocument struct {
	Name string
	Data []byte
}

// Page is one unit of extracted text. Number is 1-based for paged formats
// and zero when the source has no page structure.
type Page struct {
	Number int
	Text   string
}

// ExtractedDocument is the extractor output for a single document.
type ExtractedDocument struct {
	DocumentID string
	Name       string
	Pages      []Page
}

// Text returns the concatenated page text in page order.
func (d ExtractedDocument) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Chunk is a bounded text segment used as the unit of retrieval indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
	Page       int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}
