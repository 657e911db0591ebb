// Package retriever selects a retrieval strategy from the classifier's
// verdict and fetches relevant chunks from the vector store.
package retriever

import (
	"context"
	"errors"

	"docchat/internal/domain"
	"docchat/internal/vectorstore"
)

// StrategyKind enumerates the retrieval methods.
type StrategyKind int

const (
	// Similarity is plain top-k nearest-neighbor retrieval.
	Similarity StrategyKind = iota
	// Diverse fetches a larger candidate pool and picks k results by
	// maximal marginal relevance to reduce near-duplicate passages.
	Diverse
	// FullDocument bypasses retrieval; the caller feeds the whole
	// extracted text to the prompt composer.
	FullDocument
)

// Strategy is the retrieval method chosen for a single question.
type Strategy struct {
	Kind   StrategyKind
	K      int
	FetchK int
}

// Config tunes strategy selection.
type Config struct {
	LookupTopK          int  // top-k for point lookups
	SummaryTopK         int  // widened top-k for summary requests
	FetchK              int  // candidate pool size for MMR
	UseMMR              bool // diversity-aware lookups
	SummaryFullDocument bool // feed the whole text instead of widening k
}

// Retriever embeds the question and dispatches on the strategy kind.
type Retriever struct {
	embedder domain.Embedder
	store    vectorstore.Store
	cfg      Config
}

func New(embedder domain.Embedder, store vectorstore.Store, cfg Config) *Retriever {
	if cfg.LookupTopK <= 0 {
		cfg.LookupTopK = 3
	}
	if cfg.SummaryTopK <= 0 {
		cfg.SummaryTopK = 10
	}
	if cfg.FetchK < cfg.LookupTopK {
		cfg.FetchK = 10
	}
	return &Retriever{embedder: embedder, store: store, cfg: cfg}
}

// SelectStrategy maps the classifier verdict to a retrieval strategy.
func (r *Retriever) SelectStrategy(summary bool) Strategy {
	if summary {
		if r.cfg.SummaryFullDocument {
			return Strategy{Kind: FullDocument}
		}
		return Strategy{Kind: Similarity, K: r.cfg.SummaryTopK}
	}
	if r.cfg.UseMMR {
		return Strategy{Kind: Diverse, K: r.cfg.LookupTopK, FetchK: r.cfg.FetchK}
	}
	return Strategy{Kind: Similarity, K: r.cfg.LookupTopK}
}

// Retrieve runs a chunk-based strategy. FullDocument yields no chunks; the
// caller owns the full text and resolves it itself. An empty result is a
// valid outcome, never an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, strat Strategy) ([]domain.SearchResult, error) {
	if strat.Kind == FullDocument {
		return nil, nil
	}
	vecs, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	if len(vecs) == 0 {
		return nil, &domain.RetrievalError{Err: errors.New("no embedding for question")}
	}
	var results []domain.SearchResult
	switch strat.Kind {
	case Diverse:
		results, err = r.store.SearchDiverse(ctx, vecs[0], strat.K, strat.FetchK)
	default:
		results, err = r.store.Search(ctx, vecs[0], strat.K)
	}
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	return results, nil
}
