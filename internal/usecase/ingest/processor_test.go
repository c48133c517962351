package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/retry"
)

func fastRetry() retry.Options {
	return retry.Options{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

type harness struct {
	queue     *memQueue
	intel     *memIntelligence
	llm       *scriptedLLM
	fetcher   *staticFetcher
	actions   *recordingActions
	processor *ContentProcessor
	source    *entities.KnowledgeSource
}

func newHarness(kind entities.SourceType, items ...entities.ContentItem) *harness {
	h := &harness{
		queue:   newMemQueue(),
		intel:   &memIntelligence{},
		llm:     &scriptedLLM{fallback: validResponse, byMarker: map[string]func() (string, error){}},
		fetcher: &staticFetcher{items: items},
		actions: &recordingActions{},
		source: &entities.KnowledgeSource{
			ID:                  uuid.New(),
			Name:                "Inbox",
			SourceType:          kind,
			Enabled:             true,
			SyncIntervalMinutes: 60,
		},
	}
	deps := ProcessorDeps{
		Extractor: NewExtractor(h.llm, fastRetry(), nil),
		Ledger:    NewLedger(h.queue, h.intel, nil),
		Actions:   h.actions,
		Retry:     fastRetry(),
	}
	if kind == entities.SourceTypeEmail {
		h.processor = NewEmailProcessor(h.fetcher, deps)
	} else {
		h.processor = NewDocumentProcessor(h.fetcher, deps)
	}
	return h
}

func (h *harness) run(t *testing.T, clients ...entities.Client) *ProcessResult {
	t.Helper()
	res, err := h.processor.Process(context.Background(), h.source, clients)
	require.NoError(t, err)
	return res
}

func emails(n int) []entities.ContentItem {
	items := make([]entities.ContentItem, n)
	for i := range items {
		items[i] = entities.ContentItem{
			ID:        fmt.Sprintf("msg-%d", i+1),
			Timestamp: time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
			From:      "Jane <jane@acme.com>",
			Title:     fmt.Sprintf("Update %d", i+1),
			Text:      fmt.Sprintf("body of item-%d", i+1),
		}
	}
	return items
}

func key(id string) entities.ContentKey {
	return entities.ContentKey{Source: entities.SourceTypeEmail, SourceID: id}
}

func TestProcess_IdempotentReingestion(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(3)...)

	first := h.run(t)
	assert.Equal(t, 3, first.Processed)
	assert.Zero(t, first.Errors)

	second := h.run(t)
	assert.Zero(t, second.Processed)
	assert.Zero(t, second.Errors)
	assert.Equal(t, 3, second.Skipped)

	for _, item := range emails(3) {
		assert.Equal(t, 1, h.intel.count(key(item.ID)))
		q := h.queue.get(key(item.ID))
		require.NotNil(t, q)
		assert.Equal(t, entities.QueueStatusCompleted, q.Status)
		assert.NotNil(t, q.ProcessedAt)
		assert.Nil(t, q.ErrorMessage)
	}
	assert.Equal(t, 3, h.queue.creates)
	assert.Equal(t, 3, h.llm.calls, "second run never reaches the model")
	assert.Len(t, h.actions.ran, 3)
}

func TestProcess_FailureDoesNotDuplicateQueueItem(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	h.llm.byMarker["item-1"] = func() (string, error) { return "not json at all", nil }

	res := h.run(t)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "msg-1: ")
	assert.Contains(t, res.Messages[0], "No intelligence produced")

	failed := h.queue.get(key("msg-1"))
	require.NotNil(t, failed)
	assert.Equal(t, entities.QueueStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.NotNil(t, failed.ProcessedAt)
	firstID := failed.ID

	delete(h.llm.byMarker, "item-1")
	res = h.run(t)
	assert.Equal(t, 1, res.Processed)

	done := h.queue.get(key("msg-1"))
	assert.Equal(t, firstID, done.ID, "same ledger row is reused")
	assert.Equal(t, entities.QueueStatusCompleted, done.Status)
	assert.Nil(t, done.ErrorMessage)
	assert.Equal(t, 2, done.Attempts)
	assert.Equal(t, 1, h.queue.creates)
	assert.Equal(t, 1, h.intel.count(key("msg-1")))
}

func TestProcess_BatchIsolation(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(5)...)
	h.llm.byMarker["item-3"] = func() (string, error) { return "", errors.New("invalid request payload") }

	res := h.run(t)

	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "msg-3")
	for _, item := range emails(5) {
		q := h.queue.get(key(item.ID))
		require.NotNil(t, q)
		if item.ID == "msg-3" {
			assert.Equal(t, entities.QueueStatusFailed, q.Status)
			continue
		}
		assert.Equal(t, entities.QueueStatusCompleted, q.Status)
	}
}

func TestProcess_TransientLLMErrorIsRetried(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	calls := 0
	h.llm.byMarker["item-1"] = func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("503 service unavailable")
		}
		return validResponse, nil
	}

	res := h.run(t)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 2, calls)
}

func TestProcess_InvalidResponseIsNotRetried(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	calls := 0
	h.llm.byMarker["item-1"] = func() (string, error) {
		calls++
		return `{"summary":"missing everything"}`, nil
	}

	res := h.run(t)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, calls)
}

func TestProcess_EmailMatchesSender(t *testing.T) {
	acme := entities.Client{ID: uuid.New(), Name: "Acme Corp", Domain: "acme.com"}
	items := emails(2)
	items[1].From = "stranger@elsewhere.org"
	h := newHarness(entities.SourceTypeEmail, items...)

	h.run(t, acme)

	require.Len(t, h.intel.rows, 2)
	require.NotNil(t, h.intel.rows[0].ClientID)
	assert.Equal(t, acme.ID, *h.intel.rows[0].ClientID)
	assert.Nil(t, h.intel.rows[1].ClientID)
	assert.Equal(t, acme.ID, *h.queue.get(key("msg-1")).ClientID)
}

func TestProcess_DocumentLeavesClientUnresolved(t *testing.T) {
	acme := entities.Client{ID: uuid.New(), Name: "Acme Corp", Domain: "acme.com"}
	doc := entities.ContentItem{ID: "contracts/acme.pdf.txt", From: "jane@acme.com", Text: "item-1", Kind: entities.ContentKindTranscript}
	h := newHarness(entities.SourceTypeDocument, doc)

	res := h.run(t, acme)

	assert.Equal(t, 1, res.Processed)
	require.Len(t, h.intel.rows, 1)
	assert.Nil(t, h.intel.rows[0].ClientID)
	assert.Equal(t, entities.SourceTypeDocument, h.intel.rows[0].Source)
}

func TestProcess_CutoffFromLastSyncOrInterval(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	h.processor.now = func() time.Time { return now }

	h.run(t)
	assert.Equal(t, now.Add(-60*time.Minute), h.fetcher.since[0])

	last := now.Add(-15 * time.Minute)
	h.source.LastSyncedAt = &last
	h.run(t)
	assert.Equal(t, last, h.fetcher.since[1])
}

func TestProcess_FetchFailureIsSourceLevel(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail)
	h.fetcher.err = errors.New("connection refused")

	res, err := h.processor.Process(context.Background(), h.source, nil)

	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, 2, h.fetcher.calls, "transient fetch errors are retried")
}

func TestProcess_CompletionBookkeepingFailureStillCounts(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	h.run(t)

	// A second source item whose completion update fails
	h.fetcher.items = append(h.fetcher.items, entities.ContentItem{ID: "msg-9", Text: "item-9"})
	h.queue.updateErr = errors.New("connection reset")

	res := h.run(t)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, h.intel.count(key("msg-9")))

	h.queue.updateErr = nil
	res = h.run(t)
	assert.Zero(t, res.Processed, "intelligence pre-check keeps the item from being reprocessed")
	assert.Equal(t, 2, res.Skipped)
}

func TestProcess_IntelligenceInsertFailureMarksItemFailed(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	h.intel.createErr = errors.New("insert failed")

	res := h.run(t)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, entities.QueueStatusFailed, h.queue.get(key("msg-1")).Status)
	assert.Empty(t, h.actions.ran)
}

func TestProcess_OverlappingRunsStoreOneRecord(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)

	// a second processor over the same ledger, as an overlapping run would have
	otherActions := &recordingActions{}
	other := NewEmailProcessor(&staticFetcher{items: emails(1)}, ProcessorDeps{
		Extractor: NewExtractor(&scriptedLLM{fallback: validResponse}, fastRetry(), nil),
		Ledger:    NewLedger(h.queue, h.intel, nil),
		Actions:   otherActions,
		Retry:     fastRetry(),
	})

	var overlapped *ProcessResult
	h.llm.byMarker["item-1"] = func() (string, error) {
		res, err := other.Process(context.Background(), h.source, nil)
		if err != nil {
			return "", err
		}
		overlapped = res
		return validResponse, nil
	}

	res := h.run(t)
	require.NotNil(t, overlapped)
	assert.Equal(t, 1, overlapped.Processed)

	assert.Zero(t, res.Processed)
	assert.Zero(t, res.Errors, "losing the insert race is not a failure")
	assert.Equal(t, 1, res.Skipped)

	assert.Equal(t, 1, h.intel.count(key("msg-1")))
	q := h.queue.get(key("msg-1"))
	require.NotNil(t, q)
	assert.Equal(t, entities.QueueStatusCompleted, q.Status)
	assert.Nil(t, q.ErrorMessage)
	assert.Len(t, otherActions.ran, 1)
	assert.Empty(t, h.actions.ran, "alerts and tasks fan out once")
}

func TestProcess_TruncatedFetchReportsCutoff(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(2)...)
	through := time.Date(2026, 3, 1, 10, 0, 59, 0, time.UTC)
	h.fetcher.truncated = true
	h.fetcher.through = through

	res := h.run(t)
	assert.Equal(t, 2, res.Processed)
	require.NotNil(t, res.SyncedThrough)
	assert.Equal(t, through, *res.SyncedThrough)

	h.fetcher.truncated = false
	res = h.run(t)
	assert.Nil(t, res.SyncedThrough)
}

func TestProcess_MalformedConfigurationFailsBeforeFetch(t *testing.T) {
	h := newHarness(entities.SourceTypeEmail, emails(1)...)
	h.source.Configuration = datatypes.JSON(`{"query": "label:clients"`)

	res, err := h.processor.Process(context.Background(), h.source, nil)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInvalidSourceConfig))
	assert.Zero(t, h.fetcher.calls, "an unreadable filter must not widen the fetch")
}

func TestManualProcessor(t *testing.T) {
	res, err := ManualProcessor{}.Process(context.Background(), &entities.KnowledgeSource{SourceType: entities.SourceTypeManual}, nil)
	require.NoError(t, err)
	assert.Equal(t, &ProcessResult{}, res)
}

func TestRenderContent(t *testing.T) {
	item := &entities.ContentItem{
		From:      "jane@acme.com",
		Title:     "Budget approved",
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Text:      "We are good to go.",
	}
	assert.Equal(t, "From: jane@acme.com\nSubject: Budget approved\nDate: 2026-03-01T09:30:00Z\n\nWe are good to go.", RenderContent(item))
	assert.Equal(t, "plain", RenderContent(&entities.ContentItem{Text: "plain"}))
}
