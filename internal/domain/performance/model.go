package performance

import (
	"fmt"
	"time"
)

// BattingFacet is omitted entirely for a player who did not bat.
type BattingFacet struct {
	Runs       int
	BallsFaced int
	Dismissed  bool
}

// BowlingFacet is omitted entirely for a player who did not bowl. Overs are
// carried as whole balls bowled to keep the facet an exact integer count
// rather than the ambiguous "10.3 overs" notation upstream scorecards use.
type BowlingFacet struct {
	BallsBowled  int
	RunsConceded int
	Wickets      int
	Maidens      int
}

func (b BowlingFacet) Overs() float64 {
	return float64(b.BallsBowled) / 6.0
}

// FieldingFacet is always present, defaulting to zero credits.
type FieldingFacet struct {
	Catches   int
	Stumpings int
	Runouts   int
}

// Record is the immutable, once-written performance for one player in one
// match. Identity is (MatchID, PlayerID).
type Record struct {
	MatchID        string
	PlayerID       string
	RulesetVersion string
	Batting        *BattingFacet
	Bowling        *BowlingFacet
	Fielding       FieldingFacet
	BasePoints     float64
	ScoredAt       time.Time
}

// Validate rejects the malformed facets the scoring engine must refuse.
func (r Record) Validate() error {
	if r.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if r.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	if r.Batting != nil && r.Batting.BallsFaced < 0 {
		return fmt.Errorf("balls faced cannot be negative")
	}
	if r.Bowling != nil {
		if r.Bowling.BallsBowled < 0 {
			return fmt.Errorf("overs cannot be negative")
		}
		if r.Bowling.Wickets > 10 {
			return fmt.Errorf("wickets cannot exceed 10")
		}
		if r.Bowling.Wickets < 0 {
			return fmt.Errorf("wickets cannot be negative")
		}
	}
	return nil
}

// DidNotBat reports the "did-not-bat" special case distinct from a 0-run
// dismissal.
func (r Record) DidNotBat() bool {
	return r.Batting == nil || r.Batting.BallsFaced == 0
}
