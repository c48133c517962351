package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/clientpulse/pkg/config"
)

// ErrTranscriptionDisabled is returned when no AssemblyAI key is configured
var ErrTranscriptionDisabled = errors.New("assemblyai transcription is not configured")

// AssemblyAIClient turns recordings into speaker-labelled transcripts using the
// official SDK
type AssemblyAIClient struct {
	client       *aai.Client
	languageCode string
}

// NewAssemblyAIClient creates an AssemblyAI client. It returns nil when the
// config carries no API key, which disables transcription.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en"
	}
	return &AssemblyAIClient{
		client:       aai.NewClient(cfg.APIKey),
		languageCode: lang,
	}
}

// Transcribe submits a publicly reachable audio URL and waits for the
// transcript text
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrTranscriptionDisabled
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode(c.languageCode),
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcribe: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	return RenderTranscript(transcript), nil
}

// RenderTranscript formats utterances as "Speaker X: text" lines, falling
// back to the flat transcript text
func RenderTranscript(t aai.Transcript) string {
	if len(t.Utterances) > 0 {
		var sb strings.Builder
		for _, u := range t.Utterances {
			text := strings.TrimSpace(aai.ToString(u.Text))
			if text == "" {
				continue
			}
			speaker := aai.ToString(u.Speaker)
			if speaker == "" {
				speaker = "?"
			}
			fmt.Fprintf(&sb, "Speaker %s: %s\n", speaker, text)
		}
		if sb.Len() > 0 {
			return strings.TrimRight(sb.String(), "\n")
		}
	}
	return strings.TrimSpace(aai.ToString(t.Text))
}
