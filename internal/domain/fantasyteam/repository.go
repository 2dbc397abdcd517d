package fantasyteam

import "context"

// Repository describes fantasy team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (FantasyTeam, bool, error)
	GetByUserAndLeague(ctx context.Context, userID, leagueID string) (FantasyTeam, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]FantasyTeam, error)
	Upsert(ctx context.Context, team FantasyTeam) error
}
