package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

func defaultLifecycleRules() league.Rules {
	return league.Rules{
		SquadSize:             3,
		MinBatsmen:            1,
		MinBowlers:            1,
		MaxPlayersPerRealTeam: 3,
	}
}

func seedDraftLeague(t *testing.T, leagueRepo league.Repository, playerRepo player.Repository) {
	t.Helper()
	ctx := context.Background()

	for _, p := range []player.Player{
		{ID: "p1", Name: "Bat One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBatsman, BaselineMultiplier: 1.2},
		{ID: "p2", Name: "Bowl One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleBowler, BaselineMultiplier: 0.9},
		{ID: "p3", Name: "Keeper One", Club: "club-a", RealTeam: "ACC 1", Role: player.RoleWicketKeeper, BaselineMultiplier: 1.0},
	} {
		if err := playerRepo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	lg := league.League{
		ID:              "l1",
		Name:            "test league",
		Status:          league.StatusDraft,
		Rules:           defaultLifecycleRules(),
		RosterPlayerIDs: []string{"p1", "p2", "p3"},
	}
	if err := leagueRepo.Create(ctx, lg); err != nil {
		t.Fatalf("create league: %v", err)
	}
}

func TestLeagueLifecycleService_Confirm_CapturesSnapshot(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	seedDraftLeague(t, leagueRepo, playerRepo)

	svc := NewLeagueLifecycleService(leagueRepo, teamRepo, playerRepo, nil, nil)
	if err := svc.Confirm(ctx, "l1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	lg, _, err := leagueRepo.GetByID(ctx, "l1")
	if err != nil {
		t.Fatalf("reload league: %v", err)
	}
	if lg.Status != league.StatusActive {
		t.Fatalf("expected status active, got %s", lg.Status)
	}
	if !lg.HasSnapshot() {
		t.Fatal("expected a multiplier snapshot to be captured")
	}
	if lg.MultipliersSnapshot["p1"] != 1.2 {
		t.Fatalf("expected snapshot to seed from baseline multiplier, got %v", lg.MultipliersSnapshot["p1"])
	}
}

func TestLeagueLifecycleService_EditRules_RejectedAfterDraft(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	seedDraftLeague(t, leagueRepo, playerRepo)

	svc := NewLeagueLifecycleService(leagueRepo, teamRepo, playerRepo, nil, nil)
	if err := svc.Confirm(ctx, "l1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	err := svc.EditRules(ctx, "l1", defaultLifecycleRules())
	if err == nil {
		t.Fatal("expected rule edits to be rejected once the league has left draft")
	}
}

func TestLeagueLifecycleService_Lock_RequiresFinalizedTeams(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	seedDraftLeague(t, leagueRepo, playerRepo)

	svc := NewLeagueLifecycleService(leagueRepo, teamRepo, playerRepo, nil, nil)
	if err := svc.Confirm(ctx, "l1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	unfinalized := fantasyteam.FantasyTeam{
		ID:       "t1",
		LeagueID: "l1",
		UserID:   "u1",
		Name:     "squad",
		Picks: []fantasyteam.TeamPick{
			{PlayerID: "p1", RealTeam: "ACC 1", Role: player.RoleBatsman},
			{PlayerID: "p2", RealTeam: "ACC 1", Role: player.RoleBowler},
			{PlayerID: "p3", RealTeam: "ACC 1", Role: player.RoleWicketKeeper},
		},
	}
	if err := teamRepo.Upsert(ctx, unfinalized); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	if err := svc.Lock(ctx, "l1"); err == nil {
		t.Fatal("expected lock to fail with an un-finalized team")
	}

	now := time.Now()
	finalized := unfinalized
	finalized.CaptainID = "p1"
	finalized.ViceCaptainID = "p2"
	finalized.WicketKeeperID = "p3"
	finalized.FinalizedAt = &now
	if err := teamRepo.Upsert(ctx, finalized); err != nil {
		t.Fatalf("finalize team: %v", err)
	}

	if err := svc.Lock(ctx, "l1"); err != nil {
		t.Fatalf("expected lock to succeed once the team is finalized, got %v", err)
	}
}

func TestLeagueLifecycleService_IllegalTransition(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	seedDraftLeague(t, leagueRepo, playerRepo)

	svc := NewLeagueLifecycleService(leagueRepo, teamRepo, playerRepo, nil, nil)
	if err := svc.Lock(ctx, "l1"); err == nil {
		t.Fatal("expected draft -> locked to be an illegal transition")
	}
}
