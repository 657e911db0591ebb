// Package qdrant is a minimal REST client to Qdrant, usable as an
// alternative to the in-memory store. It assumes cosine distance and
// recreates the collection on every rebuild.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"docchat/internal/domain"
	"docchat/internal/vectorstore"
)

type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Rebuild drops and recreates the collection, then upserts the batch.
// Unlike the in-memory store this is not atomic on the remote side; the
// in-memory store is the default for that reason.
func (s *Store) Rebuild(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
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
	// Best-effort drop; an empty batch still clears the remote collection
	// so both store implementations agree on replace semantics.
	req, _ := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	s.auth(req)
	if resp, err := s.client.Do(req); err == nil {
		resp.Body.Close()
	}
	if len(chunks) == 0 {
		return nil
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), create); err != nil {
		return err
	}

	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     i,
			"vector": vectors[i],
			"payload": map[string]any{
				"document_id": chunks[i].DocumentID,
				"chunk_id":    chunks[i].ChunkID,
				"index":       chunks[i].Index,
				"page":        chunks[i].Page,
				"text":        chunks[i].Text,
			},
		}
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), map[string]any{"points": points})
}

func (s *Store) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	hits, err := s.search(ctx, vector, topK, false)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, domain.SearchResult{Chunk: h.chunk, Score: h.score})
	}
	return results, nil
}

func (s *Store) SearchDiverse(ctx context.Context, vector []float64, topK, fetchK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	if fetchK < topK {
		fetchK = topK
	}
	hits, err := s.search(ctx, vector, fetchK, true)
	if err != nil {
		return nil, err
	}
	candidates := make([][]float64, len(hits))
	for i, h := range hits {
		candidates[i] = h.vector
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, pick := range vectorstore.MMR(vector, candidates, topK, vectorstore.DefaultLambda) {
		results = append(results, domain.SearchResult{Chunk: hits[pick].chunk, Score: hits[pick].score})
	}
	return results, nil
}

type hit struct {
	chunk  domain.Chunk
	score  float64
	vector []float64
}

func (s *Store) search(ctx context.Context, vector []float64, limit int, withVector bool) ([]hit, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  withVector,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Vector  []float64      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	hits := make([]hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = v
		}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			chunk.ChunkID = v
		}
		if v, ok := r.Payload["index"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["page"].(float64); ok {
			chunk.Page = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		hits = append(hits, hit{chunk: chunk, score: r.Score, vector: r.Vector})
	}
	return hits, nil
}

func (s *Store) auth(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
