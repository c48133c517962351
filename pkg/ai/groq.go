package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/johnquangdev/clientpulse/pkg/config"
)

const defaultGroqBaseURL = "https://api.groq.com"

// GroqClient is a minimal client for the OpenAI-compatible chat completions
// endpoint used for structured extraction
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	g := &GroqClient{
		baseURL:     defaultGroqBaseURL,
		model:       "llama-3.3-70b-versatile",
		temperature: 0.2,
		maxTokens:   2000,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
	if cfg != nil {
		g.apiKey = cfg.APIKey
		if cfg.BaseURL != "" {
			g.baseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			g.model = cfg.Model
		}
		if cfg.Temperature > 0 {
			g.temperature = cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			g.maxTokens = cfg.MaxTokens
		}
		if cfg.Timeout > 0 {
			g.client.Timeout = cfg.Timeout
		}
	}
	if g.apiKey == "" {
		g.apiKey = os.Getenv("GROQ_API_KEY")
	}
	g.baseURL = strings.TrimRight(g.baseURL, "/")
	return g
}

// Model returns the configured model name
func (g *GroqClient) Model() string {
	return g.model
}

// ChatMessage is one message of a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []ChatMessage   `json:"messages,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat asks the endpoint for a JSON object
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("groq returned status %d", e.Code)
	}
	return fmt.Sprintf("groq returned status %d: %s", e.Code, e.Body)
}

// StatusCode exposes the HTTP status for retry classification
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Complete sends a system instruction and user content and returns the
// assistant message content
func (g *GroqClient) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    g.temperature,
		MaxTokens:      g.maxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}
