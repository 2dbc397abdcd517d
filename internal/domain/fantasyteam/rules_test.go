package fantasyteam

import (
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

func defaultTestRules() league.Rules {
	return league.Rules{
		SquadSize:               5,
		MinBatsmen:              2,
		MinBowlers:              2,
		MaxPlayersPerRealTeam:   3,
		RequireFromEachRealTeam: true,
		MinPlayersPerRealTeam:   1,
	}
}

func validTestTeam() FantasyTeam {
	picks := []TeamPick{
		{PlayerID: "p1", RealTeam: "ACC 1", Role: player.RoleBatsman},
		{PlayerID: "p2", RealTeam: "ACC 1", Role: player.RoleBatsman},
		{PlayerID: "p3", RealTeam: "ACC 2", Role: player.RoleBowler},
		{PlayerID: "p4", RealTeam: "ACC 2", Role: player.RoleBowler},
		{PlayerID: "p5", RealTeam: "ACC 3", Role: player.RoleWicketKeeper},
	}
	return FantasyTeam{
		ID:            "t1",
		LeagueID:      "l1",
		UserID:        "u1",
		Name:          "squad",
		Picks:         picks,
		CaptainID:     "p1",
		ViceCaptainID: "p2",
	}
}

func TestValidate_ValidSquad(t *testing.T) {
	if errs := Validate(validTestTeam(), defaultTestRules()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_WrongSize(t *testing.T) {
	team := validTestTeam()
	team.Picks = team.Picks[:4]

	errs := Validate(team, defaultTestRules())
	if !hasCode(errs, CodeSquadWrongSize) {
		t.Fatalf("expected %s, got %v", CodeSquadWrongSize, errs)
	}
}

func TestValidate_BelowMinBatsmen(t *testing.T) {
	team := validTestTeam()
	team.Picks[0].Role = player.RoleBowler

	errs := Validate(team, defaultTestRules())
	if !hasCode(errs, CodeBelowMinBatsmen) {
		t.Fatalf("expected %s, got %v", CodeBelowMinBatsmen, errs)
	}
}

func TestValidate_ExceedsMaxPerRealTeam(t *testing.T) {
	rules := defaultTestRules()
	rules.MaxPlayersPerRealTeam = 1

	errs := Validate(validTestTeam(), rules)
	if !hasCode(errs, CodeExceedsMaxPerRealTeam) {
		t.Fatalf("expected %s, got %v", CodeExceedsMaxPerRealTeam, errs)
	}
}

func TestValidateTransfer_LoneRepresentativeRemoved(t *testing.T) {
	team := validTestTeam()
	rules := defaultTestRules()

	playerOut := TeamPick{PlayerID: "p5", RealTeam: "ACC 3", Role: player.RoleWicketKeeper}
	playerIn := TeamPick{PlayerID: "p6", RealTeam: "ACC 1", Role: player.RoleAllRounder}

	errs := ValidateTransfer(team, rules, playerOut, playerIn)
	if !hasCode(errs, CodeLoneRepresentativeRemoved) {
		t.Fatalf("expected %s, got %v", CodeLoneRepresentativeRemoved, errs)
	}
}

func TestValidateTransfer_Legal(t *testing.T) {
	team := validTestTeam()
	rules := defaultTestRules()

	playerOut := TeamPick{PlayerID: "p1", RealTeam: "ACC 1", Role: player.RoleBatsman}
	playerIn := TeamPick{PlayerID: "p6", RealTeam: "ACC 1", Role: player.RoleBatsman}

	errs := ValidateTransfer(team, rules, playerOut, playerIn)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func hasCode(errs []ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}
