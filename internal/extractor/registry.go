package extractor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// Registry dispatches extraction to a format-specific extractor keyed by
// file extension.
type Registry struct {
	byExt map[string]domain.Extractor
}

// NewRegistry returns a registry with the built-in extractors registered.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]domain.Extractor)}
	r.Register(".txt", NewText())
	r.Register(".md", NewText())
	r.Register(".pdf", NewPDF())
	return r
}

// Register adds or replaces the extractor for an extension (with dot).
func (r *Registry) Register(ext string, e domain.Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Extract routes the document to the extractor for its extension.
func (r *Registry) Extract(ctx context.Context, doc domain.RawDocument) (domain.ExtractedDocument, error) {
	ext := strings.ToLower(filepath.Ext(doc.Name))
	e, ok := r.byExt[ext]
	if !ok {
		return domain.ExtractedDocument{}, &domain.ExtractionError{
			Name: doc.Name,
			Err:  fmt.Errorf("unsupported file type %q", ext),
		}
	}
	return e.Extract(ctx, doc)
}

func documentID(name string) string {
	h := sha1.Sum([]byte(name))
	return hex.EncodeToString(h[:8])
}
