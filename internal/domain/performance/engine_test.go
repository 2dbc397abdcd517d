package performance

import (
	"math"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestScore_CenturyScoring(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &BattingFacet{Runs: 105, BallsFaced: 84, Dismissed: true},
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 190.0625) {
		t.Fatalf("expected base_points 190.0625, got %v", got)
	}
}

func TestScore_Duck(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &BattingFacet{Runs: 0, BallsFaced: 4, Dismissed: true},
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected base_points 0, got %v", got)
	}
}

func TestScore_NotOutDuckHasNoPenalty(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &BattingFacet{Runs: 0, BallsFaced: 4, Dismissed: false},
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected base_points 0 for a not-out duck, got %v", got)
	}
}

func TestScore_FiveWicketHaulWithEconomyFour(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Bowling:        &BowlingFacet{BallsBowled: 60, RunsConceded: 40, Wickets: 5, Maidens: 0},
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 158) {
		t.Fatalf("expected base_points 158, got %v", got)
	}
}

func TestScore_DidNotBatContributesNoBattingPoints(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Fielding:       FieldingFacet{Catches: 1},
	}

	if !rec.DidNotBat() {
		t.Fatal("expected DidNotBat to be true when no batting facet is set")
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4) {
		t.Fatalf("expected base_points 4 (one catch), got %v", got)
	}
}

func TestScore_NegativeTotalClampsToZero(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &BattingFacet{Runs: 0, BallsFaced: 1, Dismissed: true},
	}

	got, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0 {
		t.Fatalf("expected base_points clamped at 0, got %v", got)
	}
}

func TestScore_RejectsRulesetVersionMismatch(t *testing.T) {
	rec := Record{MatchID: "m1", PlayerID: "p1", RulesetVersion: "v2"}
	if _, err := Score(rec, ruleset.V1()); err == nil {
		t.Fatal("expected an error for mismatched ruleset version")
	}
}

func TestScore_IsPure(t *testing.T) {
	rec := Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &BattingFacet{Runs: 45, BallsFaced: 40, Dismissed: true},
		Bowling:        &BowlingFacet{BallsBowled: 36, RunsConceded: 30, Wickets: 2, Maidens: 1},
		Fielding:       FieldingFacet{Catches: 1, Stumpings: 0, Runouts: 1},
	}

	first, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Score(rec, ruleset.V1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected Score to be pure, got %v then %v", first, second)
	}
}
