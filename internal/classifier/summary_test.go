package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummaryDetector(t *testing.T) {
	d := NewSummaryDetector()

	tests := []struct {
		question string
		want     bool
	}{
		{"Me dê um RESUMO", true},
		{"Qual o valor total?", false},
		{"resuma o documento por favor", true},
		{"Can you give me an overview of the report?", true},
		{"Summarize the main findings", true},
		{"Quais são os principais pontos do contrato?", true},
		{"What is the capital of France?", false},
		{"", false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, d.IsSummary(tc.question), "question: %q", tc.question)
	}
}

func TestSummaryDetectorExtraKeywords(t *testing.T) {
	d := NewSummaryDetector("síntese", "  ", "")
	require.True(t, d.IsSummary("Faça uma SÍNTESE do texto"))
	require.False(t, NewSummaryDetector().IsSummary("Faça uma síntese do texto"))
}
