package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_CHAT_KEY", "secret-key")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_CHAT_KEY", Model: "test-model"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("TEST_CHAT_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_CHAT_KEY"})
	require.Error(t, err)
}

func TestGenerateSendsHistoryAndAuth(t *testing.T) {
	var got completionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  Paris.  "}}]}`)
	})

	history := []domain.Message{
		{Role: domain.RoleSystem, Content: "persona"},
		{Role: domain.RoleHuman, Content: "question"},
		{Role: domain.RoleAI, Content: "earlier answer"},
	}
	answer, err := c.Generate(context.Background(), history)
	require.NoError(t, err)
	require.Equal(t, "Paris.", answer)

	require.Equal(t, "test-model", got.Model)
	require.Equal(t, []wireMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "earlier answer"},
	}, got.Messages)
	require.False(t, got.Stream)
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	_, err := c.Generate(context.Background(), []domain.Message{{Role: domain.RoleHuman, Content: "q"}})
	require.Error(t, err)
}

func TestGenerateNonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})
	_, err := c.Generate(context.Background(), []domain.Message{{Role: domain.RoleHuman, Content: "q"}})
	require.ErrorContains(t, err, "401")
}

func TestGenerateStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Pa\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ris.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	stream, err := c.GenerateStream(context.Background(), []domain.Message{{Role: domain.RoleHuman, Content: "q"}})
	require.NoError(t, err)

	var answer string
	var done bool
	for delta := range stream {
		require.NoError(t, delta.Err)
		answer += delta.Content
		if delta.Done {
			done = true
		}
	}
	require.Equal(t, "Paris.", answer)
	require.True(t, done)

	_, open := <-stream
	require.False(t, open)
}
