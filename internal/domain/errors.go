package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned when a question is empty or whitespace only.
// The generation step is never reached for such input.
var ErrEmptyQuestion = errors.New("empty question")

// ExtractionError reports a document that could not be parsed. The whole
// ingestion batch is aborted so the index never reflects partial coverage.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract %s: %v", e.Name, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// IndexBuildError reports an embedding or index construction failure.
// The session's prior index, if any, stays in place.
type IndexBuildError struct {
	Err error
}

func (e *IndexBuildError) Error() string { return fmt.Sprintf("build index: %v", e.Err) }
func (e *IndexBuildError) Unwrap() error { return e.Err }

// RetrievalError reports an index query failure. Callers treat it as zero
// results rather than a fatal condition.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retrieve: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a model call failure or timeout. The transient
// prompt message is retracted and the history is otherwise unchanged.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generate: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }
