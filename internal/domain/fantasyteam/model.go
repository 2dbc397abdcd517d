package fantasyteam

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

// TeamPick is one selected player in a fantasy team's squad.
type TeamPick struct {
	PlayerID string
	RealTeam string
	Role     player.Role
}

// FantasyTeam is one user's joined squad within a single league.
type FantasyTeam struct {
	ID            string
	LeagueID      string
	UserID        string
	Name          string
	Picks         []TeamPick
	CaptainID     string
	ViceCaptainID string
	// WicketKeeperID designates which squad pick fields as the team's
	// wicket-keeper for scoring purposes. Distinct from player.RoleWicketKeeper,
	// which only marks that a player is keeper-capable.
	WicketKeeperID string
	TransfersUsed  int
	FinalizedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Finalized reports whether the team has passed finalize_team and is locked
// in for scoring.
func (t FantasyTeam) Finalized() bool {
	return t.FinalizedAt != nil
}

func (t FantasyTeam) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if len(t.Picks) == 0 {
		return fmt.Errorf("team picks are required")
	}
	return nil
}

// PickByPlayer returns the pick for playerID, if present.
func (t FantasyTeam) PickByPlayer(playerID string) (TeamPick, bool) {
	for _, p := range t.Picks {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return TeamPick{}, false
}
