package vectorstore

import (
	"context"

	"docchat/internal/domain"
)

// Store holds the vector index for a session.
type Store interface {
	// Rebuild replaces the whole contents with the given batch. Inputs are
	// validated before any mutation so a failed rebuild leaves the prior
	// contents in place.
	Rebuild(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error

	// Search returns up to topK nearest chunks by cosine similarity,
	// ties broken by original chunk order.
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)

	// SearchDiverse returns up to topK results chosen by maximal marginal
	// relevance from a pool of the fetchK nearest candidates.
	SearchDiverse(ctx context.Context, vector []float64, topK, fetchK int) ([]domain.SearchResult, error)
}
