package repositories

import (
	"context"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// ProcessingQueueRepository defines persistence operations for the idempotency ledger
type ProcessingQueueRepository interface {
	// GetByKey returns nil, nil when no item exists for the key
	GetByKey(ctx context.Context, key entities.ContentKey) (*entities.ProcessingQueueItem, error)
	Create(ctx context.Context, item *entities.ProcessingQueueItem) error
	Update(ctx context.Context, item *entities.ProcessingQueueItem) error
}

// IntelligenceRepository defines persistence operations for extracted intelligence
type IntelligenceRepository interface {
	ExistsByKey(ctx context.Context, key entities.ContentKey) (bool, error)
	Create(ctx context.Context, intel *entities.Intelligence) error
}
