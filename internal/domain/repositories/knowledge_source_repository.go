package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// KnowledgeSourceRepository defines persistence operations for knowledge sources
type KnowledgeSourceRepository interface {
	ListEnabled(ctx context.Context) ([]entities.KnowledgeSource, error)
	ListAll(ctx context.Context) ([]entities.KnowledgeSource, error)
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SyncLogRepository records scheduler passes
type SyncLogRepository interface {
	Create(ctx context.Context, log *entities.SyncLog) error
}
