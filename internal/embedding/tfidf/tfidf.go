// Package tfidf is an offline embedder: it fits a TF-IDF space over the
// chunks of an ingestion batch and embeds later questions in that same
// space. It needs no API key, at the cost of lexical-only similarity.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Embedder is a TF-IDF vectorizer over a fitted vocabulary. Fit must run
// before Embed; every ingestion batch refits the space.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	tokens     *regexp.Regexp
	stopwords  map[string]struct{}
}

func NewEmbedder() *Embedder {
	return &Embedder{
		tokens:    regexp.MustCompile(`\p{L}+`),
		stopwords: defaultStopwords(),
	}
}

// Fit builds the vocabulary and smoothed IDF weights from the corpus.
// Terms are ordered lexicographically so equal corpora produce equal spaces.
func (e *Embedder) Fit(corpus []string) error {
	df := make(map[string]int)
	docs := 0
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			seen[tok] = struct{}{}
		}
		if len(seen) == 0 {
			continue
		}
		docs++
		for tok := range seen {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("corpus has no indexable terms")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(docs)
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	e.dimension = len(terms)
	return nil
}

// Dimension returns the fitted vocabulary size, zero before Fit.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns one L2-normalized TF-IDF vector per text. Texts sharing no
// vocabulary terms embed as the zero vector.
func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if e.dimension == 0 {
		return nil, errors.New("tfidf embedder not fitted to a corpus")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float64 {
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	norm := 0.0
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
		norm += vec[idx] * vec[idx]
	}
	norm = math.Sqrt(norm)
	for idx := range tf {
		vec[idx] /= norm
	}
	return vec
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokens.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := e.stopwords[tok]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

// English and Portuguese function words, matching the languages the
// summary classifier handles.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "it", "this", "that", "these", "those",
		"from", "what", "which", "do", "does", "can", "will",
		"o", "os", "as", "um", "uma", "uns", "umas", "de", "da", "do",
		"das", "dos", "em", "no", "na", "nos", "nas", "e", "ou", "que",
		"qual", "quais", "como", "para", "por", "com", "se", "ao", "à",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
