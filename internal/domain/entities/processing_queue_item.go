package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QueueStatus is the processing state of a content item
type QueueStatus string

const (
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

// IsTerminal reports whether no further processing is expected
func (s QueueStatus) IsTerminal() bool {
	return s == QueueStatusCompleted
}

// ContentKey identifies one content item across runs
type ContentKey struct {
	Source   SourceType
	SourceID string
}

func (k ContentKey) String() string {
	return string(k.Source) + ":" + k.SourceID
}

// ProcessingQueueItem is the idempotency ledger row for one content item.
// (source, source_id) is unique; rows are never deleted.
type ProcessingQueueItem struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Source            SourceType     `json:"source" gorm:"type:varchar(50);not null;uniqueIndex:idx_queue_source_key"`
	SourceID          string         `json:"source_id" gorm:"type:varchar(512);not null;uniqueIndex:idx_queue_source_key"`
	KnowledgeSourceID uuid.UUID      `json:"knowledge_source_id" gorm:"type:uuid;not null;index"`
	RawContent        datatypes.JSON `json:"raw_content" gorm:"type:jsonb"`
	Status            QueueStatus    `json:"status" gorm:"type:varchar(50);not null;index;default:'processing'"`
	ClientID          *uuid.UUID     `json:"client_id,omitempty" gorm:"type:uuid;index"`
	ProcessedAt       *time.Time     `json:"processed_at,omitempty" gorm:"type:timestamp"`
	ErrorMessage      *string        `json:"error_message,omitempty" gorm:"type:text"`
	Attempts          int            `json:"attempts" gorm:"type:integer;default:1;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewProcessingQueueItem creates a ledger row in processing state
func NewProcessingQueueItem(key ContentKey, knowledgeSourceID uuid.UUID, raw datatypes.JSON) *ProcessingQueueItem {
	now := time.Now()
	return &ProcessingQueueItem{
		ID:                uuid.New(),
		Source:            key.Source,
		SourceID:          key.SourceID,
		KnowledgeSourceID: knowledgeSourceID,
		RawContent:        raw,
		Status:            QueueStatusProcessing,
		Attempts:          1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Key returns the dedupe key of the item
func (q *ProcessingQueueItem) Key() ContentKey {
	return ContentKey{Source: q.Source, SourceID: q.SourceID}
}

// Restart puts a failed or stale item back into processing, keeping its identity
func (q *ProcessingQueueItem) Restart(raw datatypes.JSON) {
	q.Status = QueueStatusProcessing
	q.RawContent = raw
	q.ErrorMessage = nil
	q.ProcessedAt = nil
	q.Attempts++
	q.UpdatedAt = time.Now()
}

// MarkAsCompleted marks the item as processed successfully
func (q *ProcessingQueueItem) MarkAsCompleted(clientID *uuid.UUID) {
	now := time.Now()
	q.Status = QueueStatusCompleted
	q.ClientID = clientID
	q.ErrorMessage = nil
	q.ProcessedAt = &now
	q.UpdatedAt = now
}

// MarkAsFailed marks the item as failed with error message
func (q *ProcessingQueueItem) MarkAsFailed(errMsg string) {
	now := time.Now()
	q.Status = QueueStatusFailed
	q.ErrorMessage = &errMsg
	q.ProcessedAt = &now
	q.UpdatedAt = now
}

// TableName specifies the table name for GORM
func (ProcessingQueueItem) TableName() string {
	return "processing_queue"
}
