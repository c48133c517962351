package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment of a content item as judged by the model
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

// SuggestedAction is a follow-up the model proposes
type SuggestedAction struct {
	Description string  `json:"description" validate:"required"`
	Assignee    *string `json:"assignee"`
	DueDate     *string `json:"due_date"`
}

// Extraction is the validated structured response of the model. A missing
// or null list decodes to nil and fails "required"; an empty list passes.
type Extraction struct {
	Summary         string            `json:"summary" validate:"required"`
	KeyPoints       []string          `json:"key_points" validate:"required"`
	Sentiment       Sentiment         `json:"sentiment" validate:"required,oneof=positive neutral negative mixed"`
	ActionItems     []SuggestedAction `json:"action_items" validate:"required,dive"`
	PeopleMentioned []string          `json:"people_mentioned" validate:"required"`
	Topics          []string          `json:"topics" validate:"required"`
	ClientNameGuess *string           `json:"client_name_guess"`

	// Raw holds the unparsed model output
	Raw string `json:"-" validate:"-"`
}

// Intelligence is a structured insight extracted from one content item.
// (source, source_id) is unique and rows are never mutated by ingestion.
type Intelligence struct {
	ID                uuid.UUID                            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID          *uuid.UUID                           `json:"client_id,omitempty" gorm:"type:uuid;index"`
	Source            SourceType                           `json:"source" gorm:"type:varchar(50);not null;uniqueIndex:idx_intelligence_source_key"`
	SourceID          string                               `json:"source_id" gorm:"type:varchar(512);not null;uniqueIndex:idx_intelligence_source_key"`
	KnowledgeSourceID uuid.UUID                            `json:"knowledge_source_id" gorm:"type:uuid;not null;index"`
	Summary           string                               `json:"summary" gorm:"type:text;not null"`
	KeyPoints         datatypes.JSONSlice[string]          `json:"key_points" gorm:"type:jsonb;default:'[]'"`
	Sentiment         Sentiment                            `json:"sentiment" gorm:"type:varchar(20);not null"`
	ActionItems       datatypes.JSONSlice[SuggestedAction] `json:"action_items" gorm:"type:jsonb;default:'[]'"`
	PeopleMentioned   datatypes.JSONSlice[string]          `json:"people_mentioned" gorm:"type:jsonb;default:'[]'"`
	Topics            datatypes.JSONSlice[string]          `json:"topics" gorm:"type:jsonb;default:'[]'"`
	ClientNameGuess   *string                              `json:"client_name_guess,omitempty" gorm:"type:varchar(255)"`
	RawResponse       string                               `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewIntelligence builds the row persisted for a validated extraction
func NewIntelligence(key ContentKey, knowledgeSourceID uuid.UUID, clientID *uuid.UUID, ext *Extraction) *Intelligence {
	return &Intelligence{
		ID:                uuid.New(),
		ClientID:          clientID,
		Source:            key.Source,
		SourceID:          key.SourceID,
		KnowledgeSourceID: knowledgeSourceID,
		Summary:           ext.Summary,
		KeyPoints:         ext.KeyPoints,
		Sentiment:         ext.Sentiment,
		ActionItems:       ext.ActionItems,
		PeopleMentioned:   ext.PeopleMentioned,
		Topics:            ext.Topics,
		ClientNameGuess:   ext.ClientNameGuess,
		RawResponse:       ext.Raw,
		CreatedAt:         time.Now(),
	}
}

// HasClient reports whether the intelligence was matched to an account
func (i *Intelligence) HasClient() bool {
	return i.ClientID != nil && *i.ClientID != uuid.Nil
}

// TableName specifies the table name for GORM
func (Intelligence) TableName() string {
	return "intelligence"
}
