// Package chat implements the ChatModel interface against an
// OpenAI-compatible chat completions endpoint (Groq, OpenAI, and friends).
package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"docchat/internal/domain"
)

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// Config configures the chat client. Model parameters are fixed at
// construction for the whole session.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a chat client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 120 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: t},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

func toWire(history []domain.Message) []wireMessage {
	out := make([]wireMessage, len(history))
	for i, m := range history {
		role := "user"
		switch m.Role {
		case domain.RoleSystem:
			role = "system"
		case domain.RoleAI:
			role = "assistant"
		case domain.RoleHuman:
			role = "user"
		}
		out[i] = wireMessage{Role: role, Content: m.Content}
	}
	return out
}

// Generate returns the complete answer for the given history.
func (c *Client) Generate(ctx context.Context, history []domain.Message) (string, error) {
	resp, err := c.post(ctx, completionRequest{
		Model:       c.model,
		Messages:    toWire(history),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// GenerateStream yields the answer as server-sent event deltas. The
// returned channel is closed after a final Done or Err delta.
func (c *Client) GenerateStream(ctx context.Context, history []domain.Message) (<-chan domain.StreamDelta, error) {
	resp, err := c.post(ctx, completionRequest{
		Model:       c.model,
		Messages:    toWire(history),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	ch := make(chan domain.StreamDelta, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				ch <- domain.StreamDelta{Done: true, Err: ctx.Err()}
				return
			default:
			}
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				ch <- domain.StreamDelta{Done: true}
				return
			}
			var parsed struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
				continue
			}
			if len(parsed.Choices) > 0 && parsed.Choices[0].Delta.Content != "" {
				ch <- domain.StreamDelta{Content: parsed.Choices[0].Delta.Content}
			}
		}
		if err := scanner.Err(); err != nil {
			ch <- domain.StreamDelta{Done: true, Err: err}
			return
		}
		ch <- domain.StreamDelta{Done: true}
	}()
	return ch, nil
}

func (c *Client) post(ctx context.Context, body completionRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling completion request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling chat completions: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("chat completions returned status %d", resp.StatusCode)
	}
	return resp, nil
}
