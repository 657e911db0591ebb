package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestRegistryExtractsText(t *testing.T) {
	r := NewRegistry()
	doc, err := r.Extract(context.Background(), domain.RawDocument{
		Name: "notes.txt",
		Data: []byte("Paris is the capital of France.\n"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes.txt", doc.Name)
	require.NotEmpty(t, doc.DocumentID)
	require.Len(t, doc.Pages, 1)
	require.Equal(t, "Paris is the capital of France.\n", doc.Pages[0].Text)
}

func TestRegistryExtensionIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	_, err := r.Extract(context.Background(), domain.RawDocument{Name: "README.MD", Data: []byte("# title")})
	require.NoError(t, err)
}

func TestRegistryRejectsUnsupportedExtension(t *testing.T) {
	r := NewRegistry()
	_, err := r.Extract(context.Background(), domain.RawDocument{Name: "report.docx", Data: []byte("x")})
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, "report.docx", extErr.Name)
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	_, err := NewText().Extract(context.Background(), domain.RawDocument{
		Name: "bad.txt",
		Data: []byte{0xff, 0xfe, 0xfd},
	})
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestDocumentIDIsStable(t *testing.T) {
	require.Equal(t, documentID("a.txt"), documentID("a.txt"))
	require.NotEqual(t, documentID("a.txt"), documentID("b.txt"))
	require.Len(t, documentID("a.txt"), 16)
}

func TestPDFRejectsGarbage(t *testing.T) {
	_, err := NewPDF().Extract(context.Background(), domain.RawDocument{
		Name: "broken.pdf",
		Data: []byte("not a pdf at all"),
	})
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestDocumentTextConcatenatesPages(t *testing.T) {
	doc := domain.ExtractedDocument{
		Pages: []domain.Page{
			{Number: 1, Text: "first."},
			{Number: 2, Text: "second."},
		},
	}
	require.Equal(t, "first.second.", doc.Text())
}
