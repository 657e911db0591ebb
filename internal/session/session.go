// Package session owns the per-user conversation state and orchestrates
// the pipeline: ingest documents into the vector index, then answer
// questions by retrieving passages and driving the chat model with the
// full history.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docchat/internal/classifier"
	"docchat/internal/domain"
	"docchat/internal/prompt"
	"docchat/internal/retriever"
	"docchat/internal/vectorstore"
)

// Session aggregates the mutable state of one user session: the history,
// the vector index, the extracted text, and the persona flag. Sessions are
// never shared; a multi-user deployment creates one per user.
type Session struct {
	extractor  domain.Extractor
	splitter   domain.Splitter
	embedder   domain.Embedder
	store      vectorstore.Store
	retriever  *retriever.Retriever
	classifier *classifier.SummaryDetector
	composer   *prompt.Composer
	chatModel  domain.ChatModel
	logger     *slog.Logger

	history  *History
	greeting string
	fullText string
	indexed  bool
	greeted  bool
}

// corpusFitter is implemented by embedders that train on the indexed
// corpus and embed later questions in that same space.
type corpusFitter interface {
	Fit(corpus []string) error
}

// Deps wires the session's collaborators.
type Deps struct {
	Extractor  domain.Extractor
	Splitter   domain.Splitter
	Embedder   domain.Embedder
	Store      vectorstore.Store
	Retriever  *retriever.Retriever
	Classifier *classifier.SummaryDetector
	Composer   *prompt.Composer
	Chat       domain.ChatModel
	Logger     *slog.Logger

	// Greeting, when set, is appended once as an AI message after the
	// first successful ingestion.
	Greeting string
}

func New(deps Deps) *Session {
	if deps.Classifier == nil {
		deps.Classifier = classifier.NewSummaryDetector()
	}
	if deps.Composer == nil {
		deps.Composer = prompt.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Session{
		extractor:  deps.Extractor,
		splitter:   deps.Splitter,
		embedder:   deps.Embedder,
		store:      deps.Store,
		retriever:  deps.Retriever,
		classifier: deps.Classifier,
		composer:   deps.Composer,
		chatModel:  deps.Chat,
		logger:     deps.Logger,
		greeting:   deps.Greeting,
		history:    NewHistory(),
	}
}

// Ingest extracts, chunks, embeds and indexes a batch of documents. The
// batch either fully succeeds or is fully discarded: the first extraction
// failure aborts it, and an embedding or index failure leaves the prior
// index in place. A successful batch replaces the prior index wholesale.
// A non-empty persona is installed as the System message the first time an
// ingestion succeeds; it is immutable afterwards.
func (s *Session) Ingest(ctx context.Context, docs []domain.RawDocument, persona string) error {
	if len(docs) == 0 {
		return errors.New("no documents to process")
	}
	extracted := make([]domain.ExtractedDocument, 0, len(docs))
	for _, raw := range docs {
		doc, err := s.extractor.Extract(ctx, raw)
		if err != nil {
			return err
		}
		extracted = append(extracted, doc)
	}

	var chunks []domain.Chunk
	var full strings.Builder
	for _, doc := range extracted {
		cs, err := s.splitter.Split(doc)
		if err != nil {
			return &domain.IndexBuildError{Err: err}
		}
		chunks = append(chunks, cs...)
		full.WriteString(doc.Text())
		full.WriteString("\n")
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	if fitter, ok := s.embedder.(corpusFitter); ok && len(texts) > 0 {
		if err := fitter.Fit(texts); err != nil {
			return &domain.IndexBuildError{Err: err}
		}
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return &domain.IndexBuildError{Err: err}
	}
	if len(vectors) != len(chunks) {
		return &domain.IndexBuildError{Err: fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors))}
	}
	if err := s.store.Rebuild(ctx, chunks, vectors); err != nil {
		return &domain.IndexBuildError{Err: err}
	}

	s.fullText = full.String()
	s.indexed = true
	if persona != "" {
		s.history.SetSystem(persona)
	}
	if s.greeting != "" && !s.greeted {
		s.history.Append(domain.RoleAI, s.greeting)
		s.greeted = true
	}
	s.logger.Info("documents indexed", "documents", len(extracted), "chunks", len(chunks))
	return nil
}

// Ask runs one conversation turn: classify, retrieve, compose, generate.
// Only the raw question and the answer are committed to history; the
// assembled prompt drives generation and is then retracted, on failure too.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	promptText, q, err := s.prepare(ctx, question)
	if err != nil {
		return "", err
	}
	s.history.Append(domain.RoleHuman, promptText)
	answer, err := s.chatModel.Generate(ctx, s.history.Messages())
	if err != nil {
		s.history.PopLast()
		return "", &domain.GenerationError{Err: err}
	}
	s.commit(q, answer)
	return answer, nil
}

// AskStream is Ask with a streaming generator. Deltas are forwarded to
// onDelta for display only; the concatenated answer is committed to
// history only after the stream ends cleanly.
func (s *Session) AskStream(ctx context.Context, question string, onDelta func(string)) (string, error) {
	promptText, q, err := s.prepare(ctx, question)
	if err != nil {
		return "", err
	}
	s.history.Append(domain.RoleHuman, promptText)
	stream, err := s.chatModel.GenerateStream(ctx, s.history.Messages())
	if err != nil {
		s.history.PopLast()
		return "", &domain.GenerationError{Err: err}
	}
	var sb strings.Builder
	for delta := range stream {
		if delta.Err != nil {
			s.history.PopLast()
			return "", &domain.GenerationError{Err: delta.Err}
		}
		if delta.Content != "" {
			sb.WriteString(delta.Content)
			if onDelta != nil {
				onDelta(delta.Content)
			}
		}
		if delta.Done {
			break
		}
	}
	answer := sb.String()
	s.commit(q, answer)
	return answer, nil
}

// prepare validates the question, picks the retrieval strategy, and
// renders the prompt.
func (s *Session) prepare(ctx context.Context, question string) (promptText, trimmed string, err error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", "", domain.ErrEmptyQuestion
	}
	summary := s.classifier.IsSummary(q)
	strat := s.retriever.SelectStrategy(summary)

	var passages []string
	if strat.Kind == retriever.FullDocument {
		if strings.TrimSpace(s.fullText) != "" {
			passages = []string{s.fullText}
		}
	} else {
		results, err := s.retriever.Retrieve(ctx, q, strat)
		if err != nil {
			// Query failures count as zero results; the template makes
			// the model decline rather than invent.
			s.logger.Warn("retrieval failed", "error", err)
		}
		for _, r := range results {
			passages = append(passages, r.Chunk.Text)
		}
	}
	if summary {
		return s.composer.Summary(passages, q), q, nil
	}
	return s.composer.Lookup(passages, q), q, nil
}

// commit retracts the transient prompt and persists the literal turn.
func (s *Session) commit(question, answer string) {
	s.history.PopLast()
	s.history.Append(domain.RoleHuman, question)
	s.history.Append(domain.RoleAI, answer)
}

// History returns a copy of the conversation for display.
func (s *Session) History() []domain.Message { return s.history.Messages() }

// Indexed reports whether an ingestion batch has completed in this session.
func (s *Session) Indexed() bool { return s.indexed }
