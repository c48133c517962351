package entities

import (
	"time"

	"github.com/google/uuid"
)

// SyncLogStatus is the outcome of one source sync
type SyncLogStatus string

const (
	SyncLogStatusSuccess SyncLogStatus = "success"
	SyncLogStatusError   SyncLogStatus = "error"
)

// SyncLog records one scheduler pass over a knowledge source
type SyncLog struct {
	ID                uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	KnowledgeSourceID uuid.UUID     `json:"knowledge_source_id" gorm:"type:uuid;not null;index"`
	RunID             uuid.UUID     `json:"run_id" gorm:"type:uuid;not null;index"`
	Status            SyncLogStatus `json:"status" gorm:"type:varchar(20);not null"`
	ItemsProcessed    int           `json:"items_processed" gorm:"type:integer;not null;default:0"`
	ItemsFailed       int           `json:"items_failed" gorm:"type:integer;not null;default:0"`
	ErrorMessage      *string       `json:"error_message,omitempty" gorm:"type:text"`
	StartedAt         time.Time     `json:"started_at" gorm:"type:timestamp;not null"`
	FinishedAt        time.Time     `json:"finished_at" gorm:"type:timestamp;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
