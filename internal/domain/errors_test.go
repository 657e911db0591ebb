package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		err  error
		text string
	}{
		{&ExtractionError{Name: "a.pdf", Err: cause}, "a.pdf"},
		{&IndexBuildError{Err: cause}, "build index"},
		{&RetrievalError{Err: cause}, "retrieve"},
		{&GenerationError{Err: cause}, "generate"},
	}
	for _, tc := range tests {
		require.ErrorIs(t, tc.err, cause)
		require.Contains(t, tc.err.Error(), tc.text)
	}
}
