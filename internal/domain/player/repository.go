package player

import "context"

// Filter narrows All queries; zero-value fields are unconstrained. This
// backs the aggregator's all_players(filter) operation.
type Filter struct {
	Club     string
	RealTeam string
	Role     Role
}

// Repository describes player persistence needs from use cases. Players are
// process-scoped, shared across every league, so there is no league-scoping
// here.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	FindByClub(ctx context.Context, club string) ([]Player, error)
	All(ctx context.Context, filter Filter) ([]Player, error)
	Upsert(ctx context.Context, p Player) error
}
