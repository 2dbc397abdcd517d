package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
)

// RosterRepository is an in-memory roster.Repository, keyed by player id.
type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Entry
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{items: make(map[string]roster.Entry)}
}

func (r *RosterRepository) GetByPlayer(_ context.Context, playerID string) (roster.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[playerID]
	return e, ok, nil
}

func (r *RosterRepository) ListByClub(_ context.Context, club string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for _, e := range r.items {
		if e.Club == club {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *RosterRepository) Upsert(_ context.Context, entry roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[entry.PlayerID] = entry
	return nil
}
