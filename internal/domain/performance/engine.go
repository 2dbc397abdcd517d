package performance

import (
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

// Score computes base_points for one performance record under the given
// ruleset. It is a pure function: same inputs always produce the same
// output, with no I/O and no dependency on wall-clock time.
func Score(r Record, rs ruleset.Ruleset) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, fmt.Errorf("invalid performance: %w", err)
	}
	if rs.Version != r.RulesetVersion {
		return 0, fmt.Errorf("ruleset version mismatch: record wants %s, got %s", r.RulesetVersion, rs.Version)
	}
	if err := rs.Validate(); err != nil {
		return 0, fmt.Errorf("unusable ruleset: %w", err)
	}

	batting := battingPoints(r.Batting, rs)
	bowling := bowlingPoints(r.Bowling, rs)
	fielding := fieldingPoints(r.Fielding, rs)

	total := batting + bowling + fielding
	if total < 0 {
		total = 0
	}
	return total, nil
}

func battingPoints(b *BattingFacet, rs ruleset.Ruleset) float64 {
	if b == nil || b.BallsFaced == 0 {
		return 0
	}

	points := tieredPoints(rs.BattingTiers, b.Runs)

	sr := float64(b.Runs) / float64(b.BallsFaced) * 100
	base := rs.StrikeRateBase
	if base <= 0 {
		base = 100
	}
	points *= sr / base

	switch {
	case b.Runs >= 100:
		points += rs.HundredBonus
	case b.Runs >= 50:
		points += rs.FiftyBonus
	}

	if b.Runs == 0 && b.Dismissed {
		points += rs.DuckPenalty
	}

	return points
}

func bowlingPoints(b *BowlingFacet, rs ruleset.Ruleset) float64 {
	if b == nil {
		return 0
	}

	points := tieredPoints(rs.BowlingTiers, b.Wickets)

	overs := b.Overs()
	if overs > 0 {
		economy := float64(b.RunsConceded) / overs
		points *= economyMultiplier(economy, rs.EconomyRateCap)
	}

	points += float64(b.Maidens) * rs.MaidenPoints

	if b.Wickets >= 5 {
		points += rs.FiveWicketBonus
	}

	return points
}

// economyMultiplier mirrors the worked five-wicket example: an economy rate
// of 4.0 against a 6.0 ceiling yields a 1.5x multiplier (ceiling/economy).
func economyMultiplier(economy, ceiling float64) float64 {
	if economy <= 0 {
		return ceiling
	}
	m := ceiling / economy
	if m > ceiling {
		return ceiling
	}
	return m
}

func fieldingPoints(f FieldingFacet, rs ruleset.Ruleset) float64 {
	return float64(f.Catches)*rs.CatchPoints +
		float64(f.Stumpings)*rs.StumpingPoints +
		float64(f.Runouts)*rs.RunoutPoints
}

// tieredPoints walks an ordered, non-overlapping tier table and sums points
// bracket-by-bracket, the way income-tax brackets are applied: only the
// portion of value that falls inside a tier is charged at that tier's rate.
// A tier with Upper <= 0 is open-ended and absorbs everything above the
// previous tier's Upper.
func tieredPoints(tiers []ruleset.Tier, value int) float64 {
	if value <= 0 {
		return 0
	}

	points := 0.0
	lower := 0
	for _, t := range tiers {
		if t.Upper <= 0 {
			if value > lower {
				points += float64(value-lower) * t.Rate
			}
			break
		}
		if value <= lower {
			break
		}
		span := t.Upper - lower
		portion := span
		if value-lower < span {
			portion = value - lower
		}
		if portion > 0 {
			points += float64(portion) * t.Rate
		}
		lower = t.Upper
	}
	return points
}
