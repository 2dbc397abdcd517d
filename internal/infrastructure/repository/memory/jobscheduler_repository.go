package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/jobscheduler"
)

// JobSchedulerRepository is an in-memory jobscheduler.Repository backing the
// ingestion run audit trail.
type JobSchedulerRepository struct {
	mu    sync.RWMutex
	items map[string]jobscheduler.IngestionRunEvent
}

func NewJobSchedulerRepository() *JobSchedulerRepository {
	return &JobSchedulerRepository{items: make(map[string]jobscheduler.IngestionRunEvent)}
}

func (r *JobSchedulerRepository) UpsertEvent(_ context.Context, event jobscheduler.IngestionRunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[event.RunID] = event
	return nil
}

func (r *JobSchedulerRepository) ListRecent(_ context.Context, limit int) ([]jobscheduler.IngestionRunEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]jobscheduler.IngestionRunEvent, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
