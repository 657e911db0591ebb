package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
	"docchat/internal/embedding/tfidf"
	"docchat/internal/extractor"
	"docchat/internal/retriever"
	"docchat/internal/splitter"
	"docchat/internal/vectorstore/memory"
)

type stubEmbedder struct {
	err   error
	calls int
}

// Embed maps every text to the same unit vector, which makes any indexed
// chunk a perfect match for any question.
func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return 2 }

type stubChat struct {
	answer    string
	err       error
	deltas    []domain.StreamDelta
	streamErr error

	seen [][]domain.Message
}

func (c *stubChat) Generate(_ context.Context, messages []domain.Message) (string, error) {
	c.seen = append(c.seen, append([]domain.Message(nil), messages...))
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func (c *stubChat) GenerateStream(_ context.Context, messages []domain.Message) (<-chan domain.StreamDelta, error) {
	c.seen = append(c.seen, append([]domain.Message(nil), messages...))
	if c.streamErr != nil {
		return nil, c.streamErr
	}
	ch := make(chan domain.StreamDelta, len(c.deltas))
	for _, d := range c.deltas {
		ch <- d
	}
	close(ch)
	return ch, nil
}

// lastPrompt returns the transient Human message of the most recent call.
func (c *stubChat) lastPrompt(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.seen)
	msgs := c.seen[len(c.seen)-1]
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	require.Equal(t, domain.RoleHuman, last.Role)
	return last.Content
}

const persona = "You are a helpful assistant that answers questions about the loaded documents."

func newTestSession(t *testing.T, chat *stubChat, emb *stubEmbedder, greeting string) *Session {
	t.Helper()
	store := memory.NewStore()
	return New(Deps{
		Extractor: extractor.NewRegistry(),
		Splitter:  splitter.NewCharacter("\n", 500, 200),
		Embedder:  emb,
		Store:     store,
		Retriever: retriever.New(emb, store, retriever.Config{}),
		Chat:      chat,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Greeting:  greeting,
	})
}

func ingestParis(t *testing.T, s *Session) {
	t.Helper()
	docs := []domain.RawDocument{{Name: "france.txt", Data: []byte("Paris is the capital of France.\n")}}
	require.NoError(t, s.Ingest(context.Background(), docs, persona))
	require.True(t, s.Indexed())
}

func TestAskLookupFlow(t *testing.T) {
	chat := &stubChat{answer: "Paris."}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)

	answer, err := s.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	require.Equal(t, "Paris.", answer)

	// The model saw the assembled prompt, with the indexed chunk numbered.
	sent := chat.lastPrompt(t)
	require.Contains(t, sent, "1. Paris is the capital of France.\n")
	require.Contains(t, sent, "### Question:\nWhat is the capital of France?")

	// Only the raw question and the answer were committed.
	hist := s.History()
	require.Len(t, hist, 3)
	require.Equal(t, domain.Message{Role: domain.RoleSystem, Content: persona}, hist[0])
	require.Equal(t, domain.Message{Role: domain.RoleHuman, Content: "What is the capital of France?"}, hist[1])
	require.Equal(t, domain.Message{Role: domain.RoleAI, Content: "Paris."}, hist[2])
}

func TestAskSummaryFlow(t *testing.T) {
	chat := &stubChat{answer: "The document describes France."}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)

	_, err := s.Ask(context.Background(), "Me dê um resumo do documento")
	require.NoError(t, err)

	sent := chat.lastPrompt(t)
	require.Contains(t, sent, "### Instructions:\nMe dê um resumo do documento")
	require.NotContains(t, sent, "### Question:")
}

func TestAskGenerationFailureRetractsPrompt(t *testing.T) {
	chat := &stubChat{err: errors.New("model unavailable")}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)
	before := s.History()

	_, err := s.Ask(context.Background(), "What is the capital of France?")
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, before, s.History())
}

func TestAskEmptyQuestion(t *testing.T) {
	chat := &stubChat{answer: "never"}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)

	for _, q := range []string{"", "   \t\n"} {
		_, err := s.Ask(context.Background(), q)
		require.ErrorIs(t, err, domain.ErrEmptyQuestion)
	}
	require.Empty(t, chat.seen)
}

func TestAskRetrievalFailureStillAnswers(t *testing.T) {
	emb := &stubEmbedder{}
	chat := &stubChat{answer: "I do not know."}
	s := newTestSession(t, chat, emb, "")
	ingestParis(t, s)

	// Question embedding fails after ingestion succeeded.
	emb.err = errors.New("embedding service down")

	answer, err := s.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	require.Equal(t, "I do not know.", answer)
	require.Contains(t, chat.lastPrompt(t), "(no excerpts retrieved)")
}

func TestIngestPersonaAndGreetingOnce(t *testing.T) {
	chat := &stubChat{}
	s := newTestSession(t, chat, &stubEmbedder{}, "Hello! Ask me anything about your documents.")
	ingestParis(t, s)
	ingestParis(t, s)

	hist := s.History()
	require.Len(t, hist, 2)
	require.Equal(t, domain.RoleSystem, hist[0].Role)
	require.Equal(t, domain.Message{Role: domain.RoleAI, Content: "Hello! Ask me anything about your documents."}, hist[1])
}

func TestIngestFailurePreservesPriorIndex(t *testing.T) {
	emb := &stubEmbedder{}
	chat := &stubChat{answer: "Paris."}
	s := newTestSession(t, chat, emb, "")
	ingestParis(t, s)

	emb.err = errors.New("quota exceeded")
	docs := []domain.RawDocument{{Name: "other.txt", Data: []byte("Berlin is the capital of Germany.\n")}}
	err := s.Ingest(context.Background(), docs, persona)
	var idxErr *domain.IndexBuildError
	require.ErrorAs(t, err, &idxErr)

	// The first batch keeps serving answers.
	emb.err = nil
	_, err = s.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	require.Contains(t, chat.lastPrompt(t), "Paris is the capital of France.")
	require.NotContains(t, chat.lastPrompt(t), "Berlin")
}

func TestIngestUnsupportedFormat(t *testing.T) {
	s := newTestSession(t, &stubChat{}, &stubEmbedder{}, "")
	docs := []domain.RawDocument{{Name: "report.docx", Data: []byte("binary")}}
	err := s.Ingest(context.Background(), docs, persona)
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.False(t, s.Indexed())
}

func TestIngestNoDocuments(t *testing.T) {
	s := newTestSession(t, &stubChat{}, &stubEmbedder{}, "")
	require.Error(t, s.Ingest(context.Background(), nil, persona))
}

func TestAskWithOfflineEmbedder(t *testing.T) {
	emb := tfidf.NewEmbedder()
	chat := &stubChat{answer: "Paris."}
	store := memory.NewStore()
	s := New(Deps{
		Extractor: extractor.NewRegistry(),
		Splitter:  splitter.NewCharacter("\n", 40, 0),
		Embedder:  emb,
		Store:     store,
		Retriever: retriever.New(emb, store, retriever.Config{LookupTopK: 1}),
		Chat:      chat,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	docs := []domain.RawDocument{{Name: "capitals.txt", Data: []byte(
		"Paris is the capital of France.\nBerlin is the capital of Germany.\n",
	)}}
	require.NoError(t, s.Ingest(context.Background(), docs, persona))
	require.Positive(t, emb.Dimension())

	// The question embeds in the space fitted during ingestion.
	_, err := s.Ask(context.Background(), "Tell me about France")
	require.NoError(t, err)
	require.Contains(t, chat.lastPrompt(t), "1. Paris is the capital of France.")
	require.NotContains(t, chat.lastPrompt(t), "Berlin")
}

func TestAskStreamCommitsAfterCleanEnd(t *testing.T) {
	chat := &stubChat{deltas: []domain.StreamDelta{
		{Content: "Pa"},
		{Content: "ris."},
		{Done: true},
	}}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)

	var shown strings.Builder
	answer, err := s.AskStream(context.Background(), "What is the capital of France?", func(delta string) {
		shown.WriteString(delta)
	})
	require.NoError(t, err)
	require.Equal(t, "Paris.", answer)
	require.Equal(t, "Paris.", shown.String())

	hist := s.History()
	require.Equal(t, domain.Message{Role: domain.RoleHuman, Content: "What is the capital of France?"}, hist[len(hist)-2])
	require.Equal(t, domain.Message{Role: domain.RoleAI, Content: "Paris."}, hist[len(hist)-1])
}

func TestAskStreamFailureRetractsPrompt(t *testing.T) {
	chat := &stubChat{deltas: []domain.StreamDelta{
		{Content: "Pa"},
		{Err: errors.New("connection reset")},
	}}
	s := newTestSession(t, chat, &stubEmbedder{}, "")
	ingestParis(t, s)
	before := s.History()

	_, err := s.AskStream(context.Background(), "What is the capital of France?", nil)
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, before, s.History())
}
