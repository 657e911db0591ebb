package extractor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"docchat/internal/domain"
)

// PDF extracts per-page text from PDF bytes. The reader works directly on
// the in-memory payload, so no scratch files are involved.
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

func (p *PDF) Extract(ctx context.Context, doc domain.RawDocument) (out domain.ExtractedDocument, err error) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			out = domain.ExtractedDocument{}
			err = &domain.ExtractionError{Name: doc.Name, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return domain.ExtractedDocument{}, &domain.ExtractionError{Name: doc.Name, Err: err}
	}

	out = domain.ExtractedDocument{DocumentID: documentID(doc.Name), Name: doc.Name}
	for i := 1; i <= reader.NumPage(); i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.ExtractedDocument{}, &domain.ExtractionError{Name: doc.Name, Err: ctxErr}
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			return domain.ExtractedDocument{}, &domain.ExtractionError{Name: doc.Name, Err: pageErr}
		}
		out.Pages = append(out.Pages, domain.Page{Number: i, Text: text})
	}
	return out, nil
}
