package postgres

import (
	"database/sql"
	"time"
)

type performanceTableModel struct {
	ID                int64           `db:"id"`
	MatchID           string          `db:"match_id"`
	PlayerID          string          `db:"player_id"`
	RulesetVersion    string          `db:"ruleset_version"`
	BattingRuns       sql.NullInt64   `db:"batting_runs"`
	BattingBallsFaced sql.NullInt64   `db:"batting_balls_faced"`
	BattingDismissed  sql.NullBool    `db:"batting_dismissed"`
	BowlingBalls      sql.NullInt64   `db:"bowling_balls_bowled"`
	BowlingRuns       sql.NullInt64   `db:"bowling_runs_conceded"`
	BowlingWickets    sql.NullInt64   `db:"bowling_wickets"`
	BowlingMaidens    sql.NullInt64   `db:"bowling_maidens"`
	Catches           int             `db:"catches"`
	Stumpings         int             `db:"stumpings"`
	Runouts           int             `db:"runouts"`
	BasePoints        float64         `db:"base_points"`
	ScoredAt          time.Time       `db:"scored_at"`
}

type performanceInsertModel struct {
	MatchID           string        `db:"match_id"`
	PlayerID          string        `db:"player_id"`
	RulesetVersion    string        `db:"ruleset_version"`
	BattingRuns       sql.NullInt64 `db:"batting_runs"`
	BattingBallsFaced sql.NullInt64 `db:"batting_balls_faced"`
	BattingDismissed  sql.NullBool  `db:"batting_dismissed"`
	BowlingBalls      sql.NullInt64 `db:"bowling_balls_bowled"`
	BowlingRuns       sql.NullInt64 `db:"bowling_runs_conceded"`
	BowlingWickets    sql.NullInt64 `db:"bowling_wickets"`
	BowlingMaidens    sql.NullInt64 `db:"bowling_maidens"`
	Catches           int           `db:"catches"`
	Stumpings         int           `db:"stumpings"`
	Runouts           int           `db:"runouts"`
	BasePoints        float64       `db:"base_points"`
	ScoredAt          time.Time     `db:"scored_at"`
}
