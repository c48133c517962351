package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

type memQueue struct {
	mu        sync.Mutex
	items     map[entities.ContentKey]*entities.ProcessingQueueItem
	creates   int
	updateErr error
}

func newMemQueue() *memQueue {
	return &memQueue{items: map[entities.ContentKey]*entities.ProcessingQueueItem{}}
}

func (m *memQueue) GetByKey(ctx context.Context, key entities.ContentKey) (*entities.ProcessingQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (m *memQueue) Create(ctx context.Context, item *entities.ProcessingQueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.Key()]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	m.creates++
	cp := *item
	m.items[item.Key()] = &cp
	return nil
}

func (m *memQueue) Update(ctx context.Context, item *entities.ProcessingQueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *item
	m.items[item.Key()] = &cp
	return nil
}

func (m *memQueue) get(key entities.ContentKey) *entities.ProcessingQueueItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key]
}

type memIntelligence struct {
	mu        sync.Mutex
	rows      []*entities.Intelligence
	createErr error
}

func (m *memIntelligence) ExistsByKey(ctx context.Context, key entities.ContentKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Source == key.Source && r.SourceID == key.SourceID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memIntelligence) Create(ctx context.Context, intel *entities.Intelligence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.rows {
		if r.Source == intel.Source && r.SourceID == intel.SourceID {
			return errors.New("duplicate key value violates unique constraint \"idx_intelligence_source_key\"")
		}
	}
	m.rows = append(m.rows, intel)
	return nil
}

func (m *memIntelligence) count(key entities.ContentKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.Source == key.Source && r.SourceID == key.SourceID {
			n++
		}
	}
	return n
}

type memSources struct {
	sources []entities.KnowledgeSource
	listErr error
	synced  map[uuid.UUID]time.Time
}

func (m *memSources) ListEnabled(ctx context.Context) ([]entities.KnowledgeSource, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entities.KnowledgeSource
	for _, s := range m.sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSources) ListAll(ctx context.Context) ([]entities.KnowledgeSource, error) {
	return m.sources, m.listErr
}

func (m *memSources) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.synced == nil {
		m.synced = map[uuid.UUID]time.Time{}
	}
	m.synced[id] = at
	for i := range m.sources {
		if m.sources[i].ID == id {
			t := at
			m.sources[i].LastSyncedAt = &t
		}
	}
	return nil
}

type memClients struct {
	clients []entities.Client
	err     error
}

func (m *memClients) ListAll(ctx context.Context) ([]entities.Client, error) {
	return m.clients, m.err
}

type memSyncLogs struct {
	logs []*entities.SyncLog
}

func (m *memSyncLogs) Create(ctx context.Context, log *entities.SyncLog) error {
	m.logs = append(m.logs, log)
	return nil
}

type recordingAlerter struct {
	alerts []entities.OpsAlert
}

func (r *recordingAlerter) Dispatch(ctx context.Context, alert entities.OpsAlert) error {
	r.alerts = append(r.alerts, alert)
	return nil
}

type staticFetcher struct {
	items     []entities.ContentItem
	truncated bool
	through   time.Time
	err       error
	calls     int
	since     []time.Time
}

func (f *staticFetcher) Fetch(ctx context.Context, source *entities.KnowledgeSource, since time.Time) (*entities.FetchBatch, error) {
	f.calls++
	f.since = append(f.since, since)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.FetchBatch{Items: f.items, Truncated: f.truncated, Through: f.through}, nil
}

// scriptedLLM answers per content marker; unknown content gets the default
type scriptedLLM struct {
	mu       sync.Mutex
	fallback string
	byMarker map[string]func() (string, error)
	calls    int
}

// Complete runs marker hooks outside the lock so a hook may drive another
// processor that shares this LLM.
func (s *scriptedLLM) Complete(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	s.calls++
	var hook func() (string, error)
	for marker, fn := range s.byMarker {
		if containsFold(user, marker) {
			hook = fn
			break
		}
	}
	fallback := s.fallback
	s.mu.Unlock()

	if hook != nil {
		return hook()
	}
	return fallback, nil
}

type recordingActions struct {
	ran []*entities.Intelligence
}

func (r *recordingActions) Run(ctx context.Context, intel *entities.Intelligence) {
	r.ran = append(r.ran, intel)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
