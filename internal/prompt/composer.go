// Package prompt renders the fixed instruction templates that combine
// retrieved passages with the user's question.
package prompt

import (
	"fmt"
	"strings"
)

const lookupTemplate = `Use the numbered excerpts below to answer the user's question clearly and concisely.
If needed, complement the answer using the chat history.
If the answer is not in the excerpts or the chat history, say you do not know; do not guess or invent information.
Be direct and objective.

### Excerpts:
%s
### Question:
%s`

const summaryTemplate = `Summarize the content of the numbered excerpts below, following the user's instructions.
Cover the main points and do not invent information that is not in the excerpts.

### Excerpts:
%s
### Instructions:
%s`

// Composer is a pure renderer; equal inputs always produce equal output.
type Composer struct{}

func New() *Composer { return &Composer{} }

// Lookup renders the answer-from-passages template.
func (c *Composer) Lookup(passages []string, question string) string {
	return fmt.Sprintf(lookupTemplate, numbered(passages), question)
}

// Summary renders the summarize-with-instructions template.
func (c *Composer) Summary(passages []string, instructions string) string {
	return fmt.Sprintf(summaryTemplate, numbered(passages), instructions)
}

func numbered(passages []string) string {
	if len(passages) == 0 {
		return "(no excerpts retrieved)\n"
	}
	var sb strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, p)
	}
	return sb.String()
}
