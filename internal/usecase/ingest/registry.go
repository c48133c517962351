package ingest

import (
	"sort"
	"sync"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// Registry maps source types to processors. It is built during startup
// wiring and handed to the scheduler.
type Registry struct {
	mu         sync.RWMutex
	processors map[entities.SourceType]Processor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{processors: make(map[entities.SourceType]Processor)}
}

// Register binds a processor to a source type, replacing any previous one
func (r *Registry) Register(sourceType entities.SourceType, p Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[sourceType] = p
}

// Lookup returns the processor for a source type
func (r *Registry) Lookup(sourceType entities.SourceType) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processors[sourceType]
	return p, ok
}

// Types lists the registered source types in sorted order
func (r *Registry) Types() []entities.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]entities.SourceType, 0, len(r.processors))
	for t := range r.processors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
