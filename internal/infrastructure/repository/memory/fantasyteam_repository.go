package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
)

// FantasyTeamRepository is an in-memory fantasyteam.Repository, indexed by
// team id; the user+league lookup scans every stored team.
type FantasyTeamRepository struct {
	mu    sync.RWMutex
	items map[string]fantasyteam.FantasyTeam
}

func NewFantasyTeamRepository() *FantasyTeamRepository {
	return &FantasyTeamRepository{items: make(map[string]fantasyteam.FantasyTeam)}
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, teamID string) (fantasyteam.FantasyTeam, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return fantasyteam.FantasyTeam{}, false, nil
	}
	return cloneTeam(t), true, nil
}

func (r *FantasyTeamRepository) GetByUserAndLeague(_ context.Context, userID, leagueID string) (fantasyteam.FantasyTeam, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.items {
		if t.UserID == userID && t.LeagueID == leagueID {
			return cloneTeam(t), true, nil
		}
	}
	return fantasyteam.FantasyTeam{}, false, nil
}

func (r *FantasyTeamRepository) ListByLeague(_ context.Context, leagueID string) ([]fantasyteam.FantasyTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasyteam.FantasyTeam, 0)
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *FantasyTeamRepository) Upsert(_ context.Context, team fantasyteam.FantasyTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[team.ID] = cloneTeam(team)
	return nil
}

func cloneTeam(t fantasyteam.FantasyTeam) fantasyteam.FantasyTeam {
	copied := t
	copied.Picks = append([]fantasyteam.TeamPick(nil), t.Picks...)
	if t.FinalizedAt != nil {
		finalizedAt := *t.FinalizedAt
		copied.FinalizedAt = &finalizedAt
	}
	return copied
}
