package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SourceType identifies the ingestion channel of a knowledge source
type SourceType string

const (
	SourceTypeEmail    SourceType = "email"
	SourceTypeDocument SourceType = "document"
	SourceTypeManual   SourceType = "manual"
)

// Known reports whether the type is one the binary ships a processor for.
// Unknown types are still valid rows; the scheduler reports them per source.
func (t SourceType) Known() bool {
	switch t {
	case SourceTypeEmail, SourceTypeDocument, SourceTypeManual:
		return true
	}
	return false
}

// KnowledgeSource is the configuration of one ingestion channel
type KnowledgeSource struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                string         `json:"name" gorm:"type:varchar(255);not null"`
	SourceType          SourceType     `json:"source_type" gorm:"type:varchar(50);not null;index"`
	Enabled             bool           `json:"enabled" gorm:"default:true;not null;index"`
	Configuration       datatypes.JSON `json:"configuration" gorm:"type:jsonb;default:'{}'"`
	SyncIntervalMinutes int            `json:"sync_interval_minutes" gorm:"type:integer;default:60;not null"`
	LastSyncedAt        *time.Time     `json:"last_synced_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AutoSynced reports whether the scheduler may ever pick this source up.
// Manual sources are written by users and never auto-synced.
func (s *KnowledgeSource) AutoSynced() bool {
	return s.SourceType != SourceTypeManual && s.SyncIntervalMinutes > 0
}

// Interval returns the configured sync interval
func (s *KnowledgeSource) Interval() time.Duration {
	return time.Duration(s.SyncIntervalMinutes) * time.Minute
}

// IsDue reports whether the source should be synced at now
func (s *KnowledgeSource) IsDue(now time.Time) bool {
	if !s.AutoSynced() {
		return false
	}
	if s.LastSyncedAt == nil {
		return true
	}
	return now.Sub(*s.LastSyncedAt) >= s.Interval()
}

// SyncedSince returns the fetch cutoff: the last sync time, or one interval back
func (s *KnowledgeSource) SyncedSince(now time.Time) time.Time {
	if s.LastSyncedAt != nil {
		return *s.LastSyncedAt
	}
	return now.Add(-s.Interval())
}

// ConfigString reads a string option from the free-form configuration
func (s *KnowledgeSource) ConfigString(key string) string {
	opts := s.ConfigMap()
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}

// ConfigStrings reads a list option from the free-form configuration
func (s *KnowledgeSource) ConfigStrings(key string) []string {
	raw, ok := s.ConfigMap()[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out
}

// ConfigMap decodes the configuration column. Unset or malformed
// configuration yields an empty map; processors call ValidateConfig first.
func (s *KnowledgeSource) ConfigMap() map[string]interface{} {
	opts, err := s.parseConfig()
	if err != nil {
		return map[string]interface{}{}
	}
	return opts
}

// ValidateConfig reports a configuration column that is not a JSON object
func (s *KnowledgeSource) ValidateConfig() error {
	_, err := s.parseConfig()
	return err
}

func (s *KnowledgeSource) parseConfig() (map[string]interface{}, error) {
	opts := map[string]interface{}{}
	if len(s.Configuration) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(s.Configuration), &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSourceConfig, err)
	}
	if opts == nil {
		opts = map[string]interface{}{}
	}
	return opts, nil
}

// TableName specifies the table name for GORM
func (KnowledgeSource) TableName() string {
	return "knowledge_sources"
}
