package extractor

import (
	"context"
	"errors"
	"unicode/utf8"

	"docchat/internal/domain"
)

// Text passes plain-text formats (txt, md) through as a single page.
type Text struct{}

func NewText() *Text { return &Text{} }

func (t *Text) Extract(_ context.Context, doc domain.RawDocument) (domain.ExtractedDocument, error) {
	if !utf8.Valid(doc.Data) {
		return domain.ExtractedDocument{}, &domain.ExtractionError{
			Name: doc.Name,
			Err:  errors.New("content is not valid UTF-8"),
		}
	}
	return domain.ExtractedDocument{
		DocumentID: documentID(doc.Name),
		Name:       doc.Name,
		Pages:      []domain.Page{{Text: string(doc.Data)}},
	}, nil
}
