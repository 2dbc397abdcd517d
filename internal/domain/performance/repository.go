package performance

import "context"

// Repository persists immutable performance records and the per-player
// dedupe set used to make upserts idempotent.
type Repository interface {
	Get(ctx context.Context, matchID, playerID string) (Record, bool, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Record, error)
	ListByMatch(ctx context.Context, matchID string) ([]Record, error)
	Insert(ctx context.Context, record Record) error
	HasProcessed(ctx context.Context, playerID, matchID string) (bool, error)
	MarkProcessed(ctx context.Context, playerID, matchID string) error
}
