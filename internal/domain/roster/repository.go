package roster

import "context"

// Repository persists roster entries, the legacy/active promotion state
// used by the name matcher's tie-breaking rule.
type Repository interface {
	GetByPlayer(ctx context.Context, playerID string) (Entry, bool, error)
	ListByClub(ctx context.Context, club string) ([]Entry, error)
	Upsert(ctx context.Context, entry Entry) error
}
