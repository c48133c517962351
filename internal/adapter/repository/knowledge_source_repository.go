package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// KnowledgeSourceRepository handles knowledge source data operations
type KnowledgeSourceRepository struct {
	db *gorm.DB
}

// NewKnowledgeSourceRepository creates a new knowledge source repository
func NewKnowledgeSourceRepository(db *gorm.DB) *KnowledgeSourceRepository {
	return &KnowledgeSourceRepository{db: db}
}

// ListEnabled returns enabled sources in creation order
func (r *KnowledgeSourceRepository) ListEnabled(ctx context.Context) ([]entities.KnowledgeSource, error) {
	var sources []entities.KnowledgeSource
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list enabled knowledge sources: %w", err)
	}
	return sources, nil
}

// ListAll returns every source in creation order
func (r *KnowledgeSourceRepository) ListAll(ctx context.Context) ([]entities.KnowledgeSource, error) {
	var sources []entities.KnowledgeSource
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list knowledge sources: %w", err)
	}
	return sources, nil
}

// MarkSynced stamps last_synced_at
func (r *KnowledgeSourceRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.KnowledgeSource{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_synced_at": at,
			"updated_at":     time.Now(),
		}).Error
}

// SyncLogRepository stores scheduler sync logs
type SyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new sync log repository
func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Create inserts a sync log row
func (r *SyncLogRepository) Create(ctx context.Context, log *entities.SyncLog) error {
	if log == nil {
		return entities.ErrNilEntity
	}
	return r.db.WithContext(ctx).Create(log).Error
}
