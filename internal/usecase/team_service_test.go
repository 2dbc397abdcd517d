package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func seedActiveLeagueWithRoster(t *testing.T, leagueRepo league.Repository, playerRepo player.Repository, rules league.Rules, players []player.Player) {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, 0, len(players))
	for _, p := range players {
		if err := playerRepo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed player %s: %v", p.ID, err)
		}
		ids = append(ids, p.ID)
	}

	lg := league.League{
		ID:              "l1",
		Name:            "test league",
		Status:          league.StatusActive,
		Rules:           rules,
		RosterPlayerIDs: ids,
	}
	if err := leagueRepo.Create(ctx, lg); err != nil {
		t.Fatalf("create league: %v", err)
	}
}

func TestTeamService_JoinLeague_CreatesEmptyTeam(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	seedActiveLeagueWithRoster(t, leagueRepo, playerRepo, league.Rules{SquadSize: 2, MaxPlayersPerRealTeam: 2}, nil)

	svc := NewTeamService(leagueRepo, playerRepo, teamRepo, nil, staticIDGenerator{id: "team-1"}, nil)
	team, err := svc.JoinLeague(ctx, "l1", "u1", "My Squad")
	if err != nil {
		t.Fatalf("join league: %v", err)
	}
	if team.ID != "team-1" || len(team.Picks) != 0 {
		t.Fatalf("unexpected team state: %+v", team)
	}

	if _, err := svc.JoinLeague(ctx, "l1", "u1", "Second Attempt"); err == nil {
		t.Fatal("expected a second join by the same user to be rejected")
	}
}

func TestTeamService_AddPlayer_EnforcesRosterAndCaps(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()

	rules := league.Rules{SquadSize: 2, MaxPlayersPerRealTeam: 1}
	seedActiveLeagueWithRoster(t, leagueRepo, playerRepo, rules, []player.Player{
		{ID: "p1", Name: "Bat One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBatsman, BaselineMultiplier: 1.0},
		{ID: "p2", Name: "Bat Two", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBatsman, BaselineMultiplier: 1.0},
	})

	svc := NewTeamService(leagueRepo, playerRepo, teamRepo, nil, staticIDGenerator{id: "team-1"}, nil)
	if _, err := svc.JoinLeague(ctx, "l1", "u1", "Squad"); err != nil {
		t.Fatalf("join league: %v", err)
	}

	team, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("add first player: %v", err)
	}
	if len(team.Picks) != 1 {
		t.Fatalf("expected 1 pick, got %d", len(team.Picks))
	}

	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "p2"}); err == nil {
		t.Fatal("expected adding a second ACC 1 player to exceed max_players_per_real_team")
	}

	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "ghost"}); err == nil {
		t.Fatal("expected adding a player outside the league roster to fail")
	}
}

// TestTeamService_Transfer_LoneRepresentativeGuard reproduces the spec's
// illegal-transfer example: removing a squad's sole "ACC 1" player while
// require_from_each_real_team is on is rejected.
func TestTeamService_Transfer_LoneRepresentativeGuard(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()

	rules := league.Rules{
		SquadSize:               2,
		MaxPlayersPerRealTeam:   2,
		RequireFromEachRealTeam: true,
		MinPlayersPerRealTeam:   1,
	}
	seedActiveLeagueWithRoster(t, leagueRepo, playerRepo, rules, []player.Player{
		{ID: "acc1-player", Name: "Sole Rep", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBatsman, BaselineMultiplier: 1.0},
		{ID: "acc2-player-a", Name: "Other A", Club: "club-a", RealTeam: "ACC 2", Role: player.RoleBowler, BaselineMultiplier: 1.0},
		{ID: "acc2-player-b", Name: "Other B", Club: "club-a", RealTeam: "ACC 2", Role: player.RoleBowler, BaselineMultiplier: 1.0},
	})

	svc := NewTeamService(leagueRepo, playerRepo, teamRepo, nil, staticIDGenerator{id: "team-1"}, nil)
	if _, err := svc.JoinLeague(ctx, "l1", "u1", "Squad"); err != nil {
		t.Fatalf("join league: %v", err)
	}
	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "acc1-player"}); err != nil {
		t.Fatalf("add acc1 player: %v", err)
	}
	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "acc2-player-a"}); err != nil {
		t.Fatalf("add acc2 player: %v", err)
	}

	_, err := svc.Transfer(ctx, "team-1", "acc1-player", "acc2-player-b")
	if err == nil {
		t.Fatal("expected transfer to be rejected as a lone-representative removal")
	}
}

func TestTeamService_FinalizeTeam_RequiresQuotaSatisfied(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()

	rules := league.Rules{SquadSize: 2, MinBatsmen: 1, MinBowlers: 1, MaxPlayersPerRealTeam: 2}
	seedActiveLeagueWithRoster(t, leagueRepo, playerRepo, rules, []player.Player{
		{ID: "p1", Name: "Bat One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBatsman, BaselineMultiplier: 1.0},
		{ID: "p2", Name: "Bowl One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBowler, BaselineMultiplier: 1.0},
	})

	svc := NewTeamService(leagueRepo, playerRepo, teamRepo, nil, staticIDGenerator{id: "team-1"}, nil)
	if _, err := svc.JoinLeague(ctx, "l1", "u1", "Squad"); err != nil {
		t.Fatalf("join league: %v", err)
	}

	if _, err := svc.FinalizeTeam(ctx, "team-1"); err == nil {
		t.Fatal("expected finalize to fail on an empty squad")
	}

	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "p1", Captain: true}); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := svc.AddPlayer(ctx, "team-1", AddPlayerInput{PlayerID: "p2", ViceCaptain: true}); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	if _, err := svc.FinalizeTeam(ctx, "team-1"); err != nil {
		t.Fatalf("expected finalize to succeed without a wicket-keeper designation, got %v", err)
	}
}

var _ id.Generator = staticIDGenerator{}

var _ = fantasyteam.FantasyTeam{}
