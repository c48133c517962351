package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// SourceStatus describes when a knowledge source will next be synced
type SourceStatus struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	SourceType          entities.SourceType `json:"source_type"`
	Enabled             bool                `json:"enabled"`
	Registered          bool                `json:"registered"`
	SyncIntervalMinutes int                 `json:"sync_interval_minutes"`
	LastSyncedAt        *time.Time          `json:"last_synced_at,omitempty"`
	NextSyncAt          *time.Time          `json:"next_sync_at,omitempty"`
	Due                 bool                `json:"due"`
}

// Status lists every knowledge source, enabled or not, with its due state at now.
// NextSyncAt is nil for sources the scheduler never picks up.
func (s *Scheduler) Status(ctx context.Context) ([]SourceStatus, error) {
	sources, err := s.sources.ListAll(ctx)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("list knowledge sources", err)
	}

	now := s.now().UTC()
	out := make([]SourceStatus, 0, len(sources))
	for i := range sources {
		src := &sources[i]
		_, registered := s.registry.Lookup(src.SourceType)
		st := SourceStatus{
			ID:                  src.ID,
			Name:                src.Name,
			SourceType:          src.SourceType,
			Enabled:             src.Enabled,
			Registered:          registered,
			SyncIntervalMinutes: src.SyncIntervalMinutes,
			LastSyncedAt:        src.LastSyncedAt,
			Due:                 src.Enabled && src.IsDue(now),
		}
		if src.Enabled && src.AutoSynced() {
			next := now
			if src.LastSyncedAt != nil {
				next = src.LastSyncedAt.Add(src.Interval())
			}
			st.NextSyncAt = &next
		}
		out = append(out, st)
	}
	return out, nil
}
