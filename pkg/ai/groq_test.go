package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/clientpulse/pkg/config"
	"github.com/johnquangdev/clientpulse/pkg/retry"
)

func TestGroqComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization %q", got)
		}
		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Content != "hello" {
			t.Fatalf("unexpected messages %+v", payload.Messages)
		}
		if payload.Model != "test-model" {
			t.Fatalf("unexpected model %s", payload.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"summary":"ok"}`}},
			},
		})
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL + "/", Model: "test-model"})
	out, err := client.Complete(context.Background(), "instruction", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected content %s", out)
	}
}

func TestGroqComplete_StatusErrorIsClassified(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":"nope"}`))
		}))

		client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
		_, err := client.Complete(context.Background(), "s", "u")
		ts.Close()

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: expected StatusError, got %v", tt.status, err)
		}
		if se.StatusCode() != tt.status {
			t.Fatalf("expected %d got %d", tt.status, se.StatusCode())
		}
		if retry.IsRetryable(err) != tt.retryable {
			t.Fatalf("status %d: retryable mismatch", tt.status)
		}
	}
}

func TestGroqComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewAssemblyAIClient_DisabledWithoutKey(t *testing.T) {
	client := NewAssemblyAIClient(&config.AssemblyAIConfig{})
	if client != nil {
		t.Fatal("expected nil client without api key")
	}
	if _, err := client.Transcribe(context.Background(), "http://example.com/a.mp3"); !errors.Is(err, ErrTranscriptionDisabled) {
		t.Fatalf("expected ErrTranscriptionDisabled, got %v", err)
	}
}

func TestRenderTranscript(t *testing.T) {
	withUtterances := aai.Transcript{
		Text: aai.String("flat text"),
		Utterances: []aai.TranscriptUtterance{
			{Speaker: aai.String("A"), Text: aai.String("We need the budget by Friday.")},
			{Speaker: aai.String("B"), Text: aai.String("  ")},
			{Speaker: aai.String("B"), Text: aai.String("Agreed.")},
		},
	}
	want := "Speaker A: We need the budget by Friday.\nSpeaker B: Agreed."
	if got := RenderTranscript(withUtterances); got != want {
		t.Fatalf("unexpected render %q", got)
	}

	flat := aai.Transcript{Text: aai.String(" just text ")}
	if got := RenderTranscript(flat); got != "just text" {
		t.Fatalf("unexpected flat render %q", got)
	}
}
