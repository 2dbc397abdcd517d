package league

import "sync"

// LockRegistry hands out a per-league mutex so lifecycle transitions and
// drift steps for the same league never run concurrently, while unrelated
// leagues proceed in parallel. Mirrors the single shared-mutex-guarding-a-map
// idiom used elsewhere in this codebase for per-key bookkeeping, generalized
// here to per-key locking.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the caller holds the named league's lock, creating the
// underlying mutex on first use. The returned func releases it.
func (r *LockRegistry) Lock(leagueID string) func() {
	r.mu.Lock()
	m, ok := r.locks[leagueID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[leagueID] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}
