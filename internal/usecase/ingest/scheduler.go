package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/domain/repositories"
)

// Alerter dispatches operational alerts
type Alerter interface {
	Dispatch(ctx context.Context, alert entities.OpsAlert) error
}

// SourceRun is the outcome of one knowledge source within a run
type SourceRun struct {
	SourceID     uuid.UUID
	Name         string
	SourceType   entities.SourceType
	Processed    int
	Errors       int
	Skipped      bool
	ErrorMessage string
}

// RunReport is the result of one scheduler invocation
type RunReport struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []SourceRun
}

// Totals sums processed and errored items across sources
func (r *RunReport) Totals() (processed, errs int) {
	for _, s := range r.Sources {
		processed += s.Processed
		errs += s.Errors
	}
	return processed, errs
}

// Scheduler walks every enabled knowledge source once per invocation
type Scheduler struct {
	sources  repositories.KnowledgeSourceRepository
	clients  repositories.ClientRepository
	syncLogs repositories.SyncLogRepository
	registry *Registry
	alerter  Alerter
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new Scheduler
func NewScheduler(
	sources repositories.KnowledgeSourceRepository,
	clients repositories.ClientRepository,
	syncLogs repositories.SyncLogRepository,
	registry *Registry,
	alerter Alerter,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		sources:  sources,
		clients:  clients,
		syncLogs: syncLogs,
		registry: registry,
		alerter:  alerter,
		logger:   logger,
		now:      time.Now,
	}
}

// Run processes every due source sequentially. Failures of a single source
// are recorded and the run continues; only failing to load the sources or
// the client directory aborts it.
func (s *Scheduler) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: uuid.New(), StartedAt: s.now().UTC()}

	if s.logger != nil {
		s.logger.Info("🚀 Knowledge source sync started", zap.String("run_id", report.RunID.String()))
	}

	sources, err := s.sources.ListEnabled(ctx)
	if err != nil {
		return nil, s.abort(ctx, report, fmt.Errorf("load knowledge sources: %w", err))
	}
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, s.abort(ctx, report, fmt.Errorf("load clients: %w", err))
	}

	for i := range sources {
		report.Sources = append(report.Sources, s.runSource(ctx, report.RunID, &sources[i], clients))
	}

	report.FinishedAt = s.now().UTC()
	if s.logger != nil {
		processed, errs := report.Totals()
		s.logger.Info("🏁 Knowledge source sync finished",
			zap.String("run_id", report.RunID.String()),
			zap.Int("sources", len(report.Sources)),
			zap.Int("processed", processed),
			zap.Int("errors", errs),
			zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
		)
	}
	return report, nil
}

func (s *Scheduler) runSource(ctx context.Context, runID uuid.UUID, source *entities.KnowledgeSource, clients []entities.Client) SourceRun {
	out := SourceRun{SourceID: source.ID, Name: source.Name, SourceType: source.SourceType}
	startedAt := s.now().UTC()

	if !source.IsDue(startedAt) {
		out.Skipped = true
		if s.logger != nil {
			s.logger.Debug("⏭️ Source not due",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.Int("sync_interval_minutes", source.SyncIntervalMinutes),
			)
		}
		return out
	}

	processor, ok := s.registry.Lookup(source.SourceType)
	if !ok {
		err := apperrors.ErrProcessorNotFound(string(source.SourceType))
		out.Errors = 1
		out.ErrorMessage = err.Error()
		if s.logger != nil {
			s.logger.Warn("⚠️ No processor for source type",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.String("source_type", string(source.SourceType)),
			)
		}
		s.writeSyncLog(ctx, runID, source, entities.SyncLogStatusError, 0, 1, []string{err.Error()}, startedAt)
		return out
	}

	result, err := s.invoke(ctx, processor, source, clients)
	if err != nil {
		out.Errors = 1
		out.ErrorMessage = err.Error()
		if s.logger != nil {
			s.logger.Error("❌ Source sync failed",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.String("source_name", source.Name),
				zap.Error(err),
			)
		}
		s.writeSyncLog(ctx, runID, source, entities.SyncLogStatusError, 0, 1, []string{err.Error()}, startedAt)
		s.dispatch(ctx, entities.OpsAlert{
			Event:    entities.OpsEventSourceSyncFailed,
			Severity: entities.OpsSeverityError,
			Message:  fmt.Sprintf("Knowledge source %q failed to sync: %v", source.Name, err),
			Details: map[string]interface{}{
				"run_id":              runID.String(),
				"knowledge_source_id": source.ID.String(),
				"source_type":         string(source.SourceType),
			},
		})
		return out
	}

	syncedAt := s.now().UTC()
	if through := result.SyncedThrough; through != nil && through.Before(syncedAt) &&
		(source.LastSyncedAt == nil || through.After(*source.LastSyncedAt)) {
		syncedAt = *through
	}
	if err := s.sources.MarkSynced(ctx, source.ID, syncedAt); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to update last_synced_at",
			zap.String("knowledge_source_id", source.ID.String()),
			zap.Error(err),
		)
	}

	out.Processed = result.Processed
	out.Errors = result.Errors
	out.ErrorMessage = strings.Join(result.Messages, "; ")

	status := entities.SyncLogStatusSuccess
	if result.Errors > 0 {
		status = entities.SyncLogStatusError
	}
	s.writeSyncLog(ctx, runID, source, status, result.Processed, result.Errors, result.Messages, startedAt)

	if s.logger != nil {
		s.logger.Info("✅ Source synced",
			zap.String("knowledge_source_id", source.ID.String()),
			zap.String("source_name", source.Name),
			zap.Int("processed", result.Processed),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", result.Errors),
		)
	}
	return out
}

// invoke converts a processor panic into a source-level error
func (s *Scheduler) invoke(ctx context.Context, p Processor, source *entities.KnowledgeSource, clients []entities.Client) (result *ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("processor panic: %v", r)
		}
	}()

	result, err = p.Process(ctx, source, clients)
	if err == nil && result == nil {
		result = &ProcessResult{}
	}
	return result, err
}

func (s *Scheduler) writeSyncLog(ctx context.Context, runID uuid.UUID, source *entities.KnowledgeSource, status entities.SyncLogStatus, processed, failed int, messages []string, startedAt time.Time) {
	entry := &entities.SyncLog{
		ID:                uuid.New(),
		KnowledgeSourceID: source.ID,
		RunID:             runID,
		Status:            status,
		ItemsProcessed:    processed,
		ItemsFailed:       failed,
		StartedAt:         startedAt,
		FinishedAt:        s.now().UTC(),
	}
	if len(messages) > 0 {
		msg := fmt.Sprintf("[run %s] %s", runID, strings.Join(messages, "; "))
		entry.ErrorMessage = &msg
	}

	if err := s.syncLogs.Create(ctx, entry); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to write sync log",
			zap.String("knowledge_source_id", source.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) abort(ctx context.Context, report *RunReport, cause error) error {
	if s.logger != nil {
		s.logger.Error("❌ Knowledge source sync aborted",
			zap.String("run_id", report.RunID.String()),
			zap.Error(cause),
		)
	}
	s.dispatch(ctx, entities.OpsAlert{
		Event:    entities.OpsEventRunFailed,
		Severity: entities.OpsSeverityError,
		Message:  fmt.Sprintf("Knowledge source sync run aborted: %v", cause),
		Details: map[string]interface{}{
			"run_id":     report.RunID.String(),
			"started_at": report.StartedAt.Format(time.RFC3339),
		},
	})
	return apperrors.ErrSyncRunFailed(cause)
}

func (s *Scheduler) dispatch(ctx context.Context, alert entities.OpsAlert) {
	if s.alerter == nil {
		return
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = s.now().UTC()
	}
	if err := s.alerter.Dispatch(ctx, alert); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to dispatch ops alert",
			zap.String("event", alert.Event),
			zap.Error(err),
		)
	}
}
