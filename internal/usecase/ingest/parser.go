package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/validator"
)

// Parser decodes and validates model responses
type Parser struct {
	validate *validator.CustomValidator
}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// ParseExtraction decodes a model response into a validated Extraction.
// Responses wrapped in markdown code fences are accepted.
func (p *Parser) ParseExtraction(content string) (*entities.Extraction, error) {
	body := extractJSON(content)
	if body == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var ext entities.Extraction
	if err := json.Unmarshal([]byte(body), &ext); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if err := p.validate.Validate(&ext); err != nil {
		return nil, fmt.Errorf("response failed schema validation: %w", err)
	}

	ext.Raw = content
	return &ext, nil
}

// extractJSON strips ```json / ``` fences and any prose around the object
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "```"); start != -1 {
		inner := content[start+3:]
		inner = strings.TrimPrefix(inner, "json")
		inner = strings.TrimPrefix(inner, "JSON")
		if end := strings.LastIndex(inner, "```"); end != -1 {
			inner = inner[:end]
		}
		content = strings.TrimSpace(inner)
	}

	if !strings.HasPrefix(content, "{") {
		first := strings.Index(content, "{")
		last := strings.LastIndex(content, "}")
		if first != -1 && last > first {
			content = content[first : last+1]
		}
	}

	return strings.TrimSpace(content)
}
