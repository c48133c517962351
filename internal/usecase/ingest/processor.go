package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/retry"
)

// Processor syncs one knowledge source. A returned error means the source as
// a whole failed; per-item failures are reported in the result.
type Processor interface {
	Process(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client) (*ProcessResult, error)
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc func(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client) (*ProcessResult, error)

// Process calls f
func (f ProcessorFunc) Process(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client) (*ProcessResult, error) {
	return f(ctx, source, clients)
}

// Fetcher returns the content items of a source newer than since, oldest first
type Fetcher interface {
	Fetch(ctx context.Context, source *entities.KnowledgeSource, since time.Time) (*entities.FetchBatch, error)
}

// ActionRunner fans out a freshly persisted intelligence record. It is best
// effort and reports nothing back.
type ActionRunner interface {
	Run(ctx context.Context, intel *entities.Intelligence)
}

// ItemOutcome is the result of one content item
type ItemOutcome string

const (
	ItemProcessed ItemOutcome = "processed"
	ItemSkipped   ItemOutcome = "skipped"
	ItemFailed    ItemOutcome = "failed"
)

// ItemResult is the explicit per-item result aggregated into a ProcessResult
type ItemResult struct {
	ItemID         string
	Outcome        ItemOutcome
	IntelligenceID *uuid.UUID
	Reason         error
}

// ProcessResult aggregates one processor invocation. SyncedThrough is set
// when the fetch stopped short of the present; the source's sync timestamp
// then advances only that far.
type ProcessResult struct {
	Processed     int
	Errors        int
	Skipped       int
	Messages      []string
	SyncedThrough *time.Time
}

// Add folds an item result into the aggregate
func (r *ProcessResult) Add(item ItemResult) {
	switch item.Outcome {
	case ItemProcessed:
		r.Processed++
	case ItemSkipped:
		r.Skipped++
	case ItemFailed:
		r.Errors++
		r.Messages = append(r.Messages, fmt.Sprintf("%s: %v", item.ItemID, item.Reason))
	}
}

// ContentProcessor is the fetch → ledger → match → extract → persist → fan-out
// pipeline shared by the email and document sources
type ContentProcessor struct {
	name        string
	fetcher     Fetcher
	extractor   *Extractor
	ledger      *Ledger
	actions     ActionRunner
	matchSender bool
	defaultKind entities.ContentKind
	retry       retry.Options
	logger      *zap.Logger
	now         func() time.Time
}

// ProcessorDeps are the collaborators shared by content processors
type ProcessorDeps struct {
	Extractor *Extractor
	Ledger    *Ledger
	Actions   ActionRunner
	Retry     retry.Options
	Logger    *zap.Logger
}

// NewEmailProcessor resolves each message's sender to a client before extraction
func NewEmailProcessor(fetcher Fetcher, deps ProcessorDeps) *ContentProcessor {
	return newContentProcessor("email", fetcher, deps, true, entities.ContentKindEmail)
}

// NewDocumentProcessor leaves the client unresolved for manual triage
func NewDocumentProcessor(fetcher Fetcher, deps ProcessorDeps) *ContentProcessor {
	return newContentProcessor("document", fetcher, deps, false, entities.ContentKindDocument)
}

func newContentProcessor(name string, fetcher Fetcher, deps ProcessorDeps, matchSender bool, kind entities.ContentKind) *ContentProcessor {
	return &ContentProcessor{
		name:        name,
		fetcher:     fetcher,
		extractor:   deps.Extractor,
		ledger:      deps.Ledger,
		actions:     deps.Actions,
		matchSender: matchSender,
		defaultKind: kind,
		retry:       deps.Retry.Named(name+"_fetch", deps.Logger),
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Process fetches everything newer than the source's cutoff and handles the
// items one at a time
func (p *ContentProcessor) Process(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client) (*ProcessResult, error) {
	// a broken filter must not silently widen the fetch
	if err := source.ValidateConfig(); err != nil {
		if p.logger != nil {
			p.logger.Error("❌ Invalid knowledge source configuration",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.String("source_name", source.Name),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%s source %q: %w", p.name, source.Name, err)
	}

	since := source.SyncedSince(p.now())

	batch, err := retry.Do(ctx, p.retry, func(ctx context.Context) (*entities.FetchBatch, error) {
		return p.fetcher.Fetch(ctx, source, since)
	})
	if err != nil {
		return nil, fmt.Errorf("%s fetch for %q failed: %w", p.name, source.Name, err)
	}
	var items []entities.ContentItem
	if batch != nil {
		items = batch.Items
	}

	if p.logger != nil {
		p.logger.Info("📥 Fetched content items",
			zap.String("knowledge_source_id", source.ID.String()),
			zap.String("source_type", string(source.SourceType)),
			zap.Time("since", since),
			zap.Int("count", len(items)),
		)
	}

	result := &ProcessResult{}
	if batch != nil && batch.Truncated && !batch.Through.IsZero() {
		through := batch.Through.UTC()
		result.SyncedThrough = &through
		if p.logger != nil {
			p.logger.Warn("⚠️ Fetch hit the item cap, remaining items deferred to the next sync",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.Time("synced_through", through),
			)
		}
	}
	for i := range items {
		result.Add(p.processItem(ctx, source, clients, &items[i]))
	}
	return result, nil
}

func (p *ContentProcessor) processItem(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client, item *entities.ContentItem) ItemResult {
	key := entities.ContentKey{Source: source.SourceType, SourceID: item.ID}

	raw, err := json.Marshal(item)
	if err != nil {
		return p.failed(item, nil, fmt.Errorf("encode content: %w", err))
	}

	queued, err := p.ledger.Begin(ctx, key, source.ID, raw)
	if err != nil {
		return p.failed(item, nil, err)
	}
	if queued == nil {
		return ItemResult{ItemID: item.ID, Outcome: ItemSkipped}
	}

	var clientID *uuid.UUID
	if p.matchSender {
		if client := FindClientForEmail(clients, item.From); client != nil {
			id := client.ID
			clientID = &id
		}
	}

	kind := item.Kind
	if kind == "" {
		kind = p.defaultKind
	}

	ext, err := p.extractor.Extract(ctx, kind, RenderContent(item))
	if err == nil && ext == nil {
		err = apperrors.ErrNoIntelligence(string(kind))
	}
	if err != nil {
		p.ledger.Fail(ctx, queued, err)
		return p.failed(item, queued, err)
	}

	intel := entities.NewIntelligence(key, source.ID, clientID, ext)
	stored, err := p.ledger.Complete(ctx, queued, intel)
	if err != nil {
		p.ledger.Fail(ctx, queued, err)
		return p.failed(item, queued, err)
	}
	if !stored {
		return ItemResult{ItemID: item.ID, Outcome: ItemSkipped}
	}

	if p.actions != nil {
		p.actions.Run(ctx, intel)
	}

	if p.logger != nil {
		p.logger.Info("✅ Content item processed",
			zap.String("item_id", item.ID),
			zap.String("intelligence_id", intel.ID.String()),
			zap.Bool("client_matched", intel.HasClient()),
		)
	}
	return ItemResult{ItemID: item.ID, Outcome: ItemProcessed, IntelligenceID: &intel.ID}
}

func (p *ContentProcessor) failed(item *entities.ContentItem, queued *entities.ProcessingQueueItem, err error) ItemResult {
	if p.logger != nil {
		fields := []zap.Field{
			zap.String("item_id", item.ID),
			zap.Error(err),
		}
		if queued != nil {
			fields = append(fields, zap.String("queue_item_id", queued.ID.String()))
		}
		p.logger.Error("❌ Content item failed", fields...)
	}
	return ItemResult{ItemID: item.ID, Outcome: ItemFailed, Reason: err}
}

// RenderContent formats an item as prompt text, headers first
func RenderContent(item *entities.ContentItem) string {
	var sb strings.Builder
	if item.From != "" {
		fmt.Fprintf(&sb, "From: %s\n", item.From)
	}
	if item.Title != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", item.Title)
	}
	if !item.Timestamp.IsZero() {
		fmt.Fprintf(&sb, "Date: %s\n", item.Timestamp.UTC().Format(time.RFC3339))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(item.Text)
	return sb.String()
}

// ManualProcessor handles manual sources. Notes are written directly by users,
// so there is nothing to fetch.
type ManualProcessor struct{}

// Process returns an empty result
func (ManualProcessor) Process(ctx context.Context, source *entities.KnowledgeSource, clients []entities.Client) (*ProcessResult, error) {
	return &ProcessResult{}, nil
}
