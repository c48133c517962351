package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// IntelligenceRepository stores extracted intelligence
type IntelligenceRepository struct {
	db *gorm.DB
}

// NewIntelligenceRepository creates a new intelligence repository
func NewIntelligenceRepository(db *gorm.DB) *IntelligenceRepository {
	return &IntelligenceRepository{db: db}
}

// ExistsByKey reports whether intelligence was already extracted for the key
func (r *IntelligenceRepository) ExistsByKey(ctx context.Context, key entities.ContentKey) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Intelligence{}).
		Where("source = ? AND source_id = ?", key.Source, key.SourceID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check intelligence: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new intelligence row
func (r *IntelligenceRepository) Create(ctx context.Context, intel *entities.Intelligence) error {
	if intel == nil {
		return entities.ErrNilEntity
	}
	if err := r.db.WithContext(ctx).Create(intel).Error; err != nil {
		return fmt.Errorf("failed to create intelligence: %w", err)
	}
	return nil
}
