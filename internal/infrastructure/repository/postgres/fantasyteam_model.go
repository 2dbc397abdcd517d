package postgres

import "time"

type fantasyTeamTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	LeagueID       string     `db:"league_public_id"`
	UserID         string     `db:"user_id"`
	Name           string     `db:"name"`
	Picks          []byte     `db:"picks"`
	CaptainID      string     `db:"captain_id"`
	ViceCaptainID  string     `db:"vice_captain_id"`
	WicketKeeperID string     `db:"wicket_keeper_id"`
	TransfersUsed  int        `db:"transfers_used"`
	FinalizedAt    *time.Time `db:"finalized_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type fantasyTeamInsertModel struct {
	PublicID       string     `db:"public_id"`
	LeagueID       string     `db:"league_public_id"`
	UserID         string     `db:"user_id"`
	Name           string     `db:"name"`
	Picks          []byte     `db:"picks"`
	CaptainID      string     `db:"captain_id"`
	ViceCaptainID  string     `db:"vice_captain_id"`
	WicketKeeperID string     `db:"wicket_keeper_id"`
	TransfersUsed  int        `db:"transfers_used"`
	FinalizedAt    *time.Time `db:"finalized_at"`
}

// pickDoc is the jsonb shape stored in fantasy_teams.picks.
type pickDoc struct {
	PlayerID string `json:"player_id"`
	RealTeam string `json:"real_team"`
	Role     string `json:"role"`
}
