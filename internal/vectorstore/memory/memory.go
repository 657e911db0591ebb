// Package memory is an in-memory vector store using brute-force cosine
// similarity. It is the default store for single-session use.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"docchat/internal/domain"
	"docchat/internal/vectorstore"
)

// Store keeps chunks and vectors in insertion order, which doubles as the
// tie-break order for equal scores.
type Store struct {
	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
}

func NewStore() *Store { return &Store{} }

func (s *Store) Rebuild(_ context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	dimension := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("empty vector at position %d", i)
		}
		if dimension == 0 {
			dimension = len(v)
		}
		if len(v) != dimension {
			return fmt.Errorf("vector dimension %d does not match %d", len(v), dimension)
		}
	}
	// Validation passed: swap wholesale.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.chunks = append([]domain.Chunk(nil), chunks...)
	s.vectors = append([][]float64(nil), vectors...)
	return nil
}

func (s *Store) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 || len(s.chunks) == 0 {
		return nil, nil
	}
	idxs, scores := s.ranked(vector)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Store) SearchDiverse(_ context.Context, vector []float64, topK, fetchK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 || len(s.chunks) == 0 {
		return nil, nil
	}
	if fetchK < topK {
		fetchK = topK
	}
	idxs, scores := s.ranked(vector)
	if fetchK > len(idxs) {
		fetchK = len(idxs)
	}
	pool := idxs[:fetchK]
	candidates := make([][]float64, len(pool))
	for i, j := range pool {
		candidates[i] = s.vectors[j]
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, pick := range vectorstore.MMR(vector, candidates, topK, vectorstore.DefaultLambda) {
		j := pool[pick]
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

// ranked returns all indexes sorted by score descending, insertion order
// breaking ties.
func (s *Store) ranked(vector []float64) ([]int, []float64) {
	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = vectorstore.Cosine(v, vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		if scores[idxs[a]] != scores[idxs[b]] {
			return scores[idxs[a]] > scores[idxs[b]]
		}
		return idxs[a] < idxs[b]
	})
	return idxs, scores
}
