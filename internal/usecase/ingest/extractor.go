package ingest

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/retry"
)

// Completer is the LLM call: a system instruction plus user content in, the
// assistant message out
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// maxPromptChars bounds the content sent to the model
const maxPromptChars = 48000

const responseContract = `Respond with a single JSON object and nothing else, using exactly these fields:
{
  "summary": string,
  "key_points": [string],
  "sentiment": "positive" | "neutral" | "negative" | "mixed",
  "action_items": [{"description": string, "assignee": string | null, "due_date": "YYYY-MM-DD" | null}],
  "people_mentioned": [string],
  "topics": [string],
  "client_name_guess": string | null
}
Use empty lists when nothing applies. Never invent assignees or dates that are not stated.`

var instructions = map[entities.ContentKind]string{
	entities.ContentKindEmail: "You analyse client emails for an account management team. " +
		"Summarise what the client is saying, capture commitments and requests as action items, " +
		"and judge the client's sentiment toward us.",
	entities.ContentKindTranscript: "You analyse meeting transcripts between our team and a client. " +
		"Speakers are labelled. Summarise decisions, list follow-ups with owners where stated, " +
		"and judge the overall sentiment of the client side.",
	entities.ContentKindDocument: "You analyse documents shared with or about a client. " +
		"Summarise the content, extract obligations or next steps as action items, " +
		"and judge the sentiment the document expresses about the relationship.",
	entities.ContentKindNote: "You analyse internal notes written by our team about a client. " +
		"Summarise them, extract follow-ups as action items, and judge the sentiment they report.",
}

// Instruction returns the system prompt for a content kind
func Instruction(kind entities.ContentKind) string {
	base, ok := instructions[kind]
	if !ok {
		base = instructions[entities.ContentKindDocument]
	}
	return base + "\n\n" + responseContract
}

// Extractor turns raw text into validated structured intelligence
type Extractor struct {
	llm    Completer
	parser *Parser
	retry  retry.Options
	logger *zap.Logger
}

// NewExtractor creates a new Extractor
func NewExtractor(llm Completer, retryOpts retry.Options, logger *zap.Logger) *Extractor {
	return &Extractor{
		llm:    llm,
		parser: NewParser(),
		retry:  retryOpts.Named("llm_extract", logger),
		logger: logger,
	}
}

// truncatePrompt cuts text to at most limit bytes without splitting a rune
func truncatePrompt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// Extract calls the model with the instruction for kind. The network call is
// retried; an unparseable or schema-invalid response is not, and yields
// (nil, nil).
func (e *Extractor) Extract(ctx context.Context, kind entities.ContentKind, text string) (*entities.Extraction, error) {
	text = truncatePrompt(text, maxPromptChars)

	content, err := retry.Do(ctx, e.retry, func(ctx context.Context) (string, error) {
		return e.llm.Complete(ctx, Instruction(kind), text)
	})
	if err != nil {
		return nil, apperrors.ErrLLMUnavailable(err)
	}

	ext, err := e.parser.ParseExtraction(content)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("⚠️ Discarding model response",
				zap.String("content_kind", string(kind)),
				zap.Int("response_length", len(content)),
				zap.Error(err),
			)
		}
		return nil, nil
	}

	return ext, nil
}
