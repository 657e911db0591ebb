// Package classifier decides whether a question asks for a document
// summary rather than a point lookup.
package classifier

import "strings"

// SummaryDetector is a pure case-insensitive substring match over a fixed
// keyword set. No negation handling, first match wins.
type SummaryDetector struct {
	keywords []string
}

var defaultKeywords = []string{
	"resumo",
	"resuma",
	"resumir",
	"summary",
	"summarize",
	"summarise",
	"overview",
	"principais pontos",
	"main points",
	"tl;dr",
}

// NewSummaryDetector returns a detector over the built-in keyword set,
// extended with any additional keywords from configuration.
func NewSummaryDetector(extra ...string) *SummaryDetector {
	keywords := append([]string(nil), defaultKeywords...)
	for _, k := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &SummaryDetector{keywords: keywords}
}

// IsSummary reports whether the question contains any summary keyword.
func (d *SummaryDetector) IsSummary(question string) bool {
	q := strings.ToLower(question)
	for _, k := range d.keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
