package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// ProcessingQueueRepository handles the idempotency ledger
type ProcessingQueueRepository struct {
	db *gorm.DB
}

// NewProcessingQueueRepository creates a new processing queue repository
func NewProcessingQueueRepository(db *gorm.DB) *ProcessingQueueRepository {
	return &ProcessingQueueRepository{db: db}
}

// GetByKey retrieves the item for (source, source_id)
func (r *ProcessingQueueRepository) GetByKey(ctx context.Context, key entities.ContentKey) (*entities.ProcessingQueueItem, error) {
	var item entities.ProcessingQueueItem
	if err := r.db.WithContext(ctx).
		Where("source = ? AND source_id = ?", key.Source, key.SourceID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find queue item: %w", err)
	}
	return &item, nil
}

// Create inserts a new item
func (r *ProcessingQueueRepository) Create(ctx context.Context, item *entities.ProcessingQueueItem) error {
	if item == nil {
		return entities.ErrNilEntity
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create queue item: %w", err)
	}
	return nil
}

// Update writes the mutable state of an item in place
func (r *ProcessingQueueRepository) Update(ctx context.Context, item *entities.ProcessingQueueItem) error {
	if item == nil {
		return entities.ErrNilEntity
	}
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingQueueItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"status":        item.Status,
			"raw_content":   item.RawContent,
			"client_id":     item.ClientID,
			"processed_at":  item.ProcessedAt,
			"error_message": item.ErrorMessage,
			"attempts":      item.Attempts,
			"updated_at":    item.UpdatedAt,
		}).Error
}
