package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/domain/repositories"
)

// Ledger runs the per-item idempotency protocol over the processing queue and
// the intelligence store
type Ledger struct {
	queue        repositories.ProcessingQueueRepository
	intelligence repositories.IntelligenceRepository
	logger       *zap.Logger
}

// NewLedger creates a new Ledger
func NewLedger(queue repositories.ProcessingQueueRepository, intelligence repositories.IntelligenceRepository, logger *zap.Logger) *Ledger {
	return &Ledger{queue: queue, intelligence: intelligence, logger: logger}
}

// Begin claims a content item for processing. It returns nil when the item
// was already fully processed. An existing failed or in-flight item is reset
// in place; otherwise a new item is created.
func (l *Ledger) Begin(ctx context.Context, key entities.ContentKey, knowledgeSourceID uuid.UUID, raw datatypes.JSON) (*entities.ProcessingQueueItem, error) {
	exists, err := l.intelligence.ExistsByKey(ctx, key)
	if err != nil {
		return nil, apperrors.ErrQueueBookkeeping(key.String(), fmt.Errorf("check intelligence: %w", err))
	}
	if exists {
		return nil, nil
	}

	item, err := l.queue.GetByKey(ctx, key)
	if err != nil {
		return nil, apperrors.ErrQueueBookkeeping(key.String(), fmt.Errorf("load queue item: %w", err))
	}

	if item == nil {
		item = entities.NewProcessingQueueItem(key, knowledgeSourceID, raw)
		if err := l.queue.Create(ctx, item); err != nil {
			return nil, apperrors.ErrQueueBookkeeping(key.String(), fmt.Errorf("create queue item: %w", err))
		}
		return item, nil
	}

	if item.Status.IsTerminal() {
		return nil, nil
	}

	item.Restart(raw)
	if err := l.queue.Update(ctx, item); err != nil {
		return nil, apperrors.ErrQueueBookkeeping(key.String(), fmt.Errorf("reset queue item: %w", err))
	}

	if l.logger != nil {
		l.logger.Info("🔁 Retrying queued item",
			zap.String("queue_item_id", item.ID.String()),
			zap.String("content_key", key.String()),
			zap.Int("attempts", item.Attempts),
		)
	}
	return item, nil
}

// Complete persists the intelligence and marks the item completed. stored is
// false when an overlapping run already inserted the intelligence for this
// key; the item is then completed without a second record. Only the
// intelligence insert can fail the item: a failed status update afterwards is
// logged, since the intelligence pre-check already keeps the next run from
// reprocessing it.
func (l *Ledger) Complete(ctx context.Context, item *entities.ProcessingQueueItem, intel *entities.Intelligence) (stored bool, err error) {
	stored = true
	if err := l.intelligence.Create(ctx, intel); err != nil {
		key := item.Key()
		exists, checkErr := l.intelligence.ExistsByKey(ctx, key)
		if checkErr != nil || !exists {
			return false, fmt.Errorf("persist intelligence: %w", err)
		}
		stored = false
		if l.logger != nil {
			l.logger.Info("⏭️ Intelligence already stored by an overlapping run",
				zap.String("queue_item_id", item.ID.String()),
				zap.String("content_key", key.String()),
			)
		}
	}

	item.MarkAsCompleted(intel.ClientID)
	if err := l.queue.Update(ctx, item); err != nil && l.logger != nil {
		l.logger.Error("❌ Failed to mark queue item completed",
			zap.String("queue_item_id", item.ID.String()),
			zap.String("intelligence_id", intel.ID.String()),
			zap.Error(err),
		)
	}
	return stored, nil
}

// Fail records the failure reason on the item
func (l *Ledger) Fail(ctx context.Context, item *entities.ProcessingQueueItem, cause error) {
	item.MarkAsFailed(cause.Error())
	if err := l.queue.Update(ctx, item); err != nil && l.logger != nil {
		l.logger.Error("❌ Failed to mark queue item failed",
			zap.String("queue_item_id", item.ID.String()),
			zap.String("cause", cause.Error()),
			zap.Error(err),
		)
	}
}
