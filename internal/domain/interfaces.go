package domain

import "context"

// Extractor turns raw document bytes into extracted text units.
type Extractor interface {
	Extract(ctx context.Context, doc RawDocument) (ExtractedDocument, error)
}

// Splitter splits an extracted document into chunks suitable for
// retrieval indexing.
type Splitter interface {
	Split(doc ExtractedDocument) ([]Chunk, error)
}

// Embedder converts texts into numeric vector representations.
// One vector per input, order-preserving, fixed dimensionality within
// a session.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// ChatModel generates answers from an ordered message history.
type ChatModel interface {
	// Generate returns the complete answer for the given history.
	Generate(ctx context.Context, history []Message) (string, error)

	// GenerateStream yields the answer as an ordered sequence of deltas.
	// The channel is closed after a delta with Done or Err set.
	GenerateStream(ctx context.Context, history []Message) (<-chan StreamDelta, error)
}
