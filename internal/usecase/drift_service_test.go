package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestDriftService_DriftLeague_WorkedExample(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()

	scores := map[string]float64{"p10": 10, "p20": 20, "p30": 30, "p40": 40, "p90": 90}
	roster := make([]string, 0, len(scores))
	for id, score := range scores {
		roster = append(roster, id)
		if err := playerRepo.Upsert(ctx, player.Player{
			ID:                 id,
			Name:               id,
			Club:               "club-a",
			RealTeam:           "ACC 1",
			Role:               player.RoleBatsman,
			BaselineMultiplier: 1.0,
			Aggregates:         player.SeasonAggregates{TotalPoints: score},
		}); err != nil {
			t.Fatalf("seed player %s: %v", id, err)
		}
	}

	frozenAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lg := league.League{
		ID:                  "l1",
		Name:                "test league",
		Status:              league.StatusActive,
		Rules:               league.Rules{SquadSize: 5, MaxPlayersPerRealTeam: 5},
		RosterPlayerIDs:     roster,
		MultipliersSnapshot: map[string]float64{"p40": 1.10},
		MultipliersFrozenAt: &frozenAt,
	}
	if err := leagueRepo.Create(ctx, lg); err != nil {
		t.Fatalf("create league: %v", err)
	}

	svc := NewDriftService(leagueRepo, playerRepo, nil, DefaultDriftRate, player.MinMultiplier, player.MaxMultiplier, nil)
	if err := svc.DriftLeague(ctx, "l1", roster); err != nil {
		t.Fatalf("drift league: %v", err)
	}

	updated, found, err := leagueRepo.GetByID(ctx, "l1")
	if err != nil || !found {
		t.Fatalf("reload league: found=%v err=%v", found, err)
	}

	got := updated.MultipliersSnapshot["p40"]
	want := 1.0772
	if diff := got - want; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("expected drifted multiplier ~%v, got %v", want, got)
	}
}

func TestDriftService_DriftLeague_SkipsUnderThreeDistinctScores(t *testing.T) {
	ctx := context.Background()
	leagueRepo := memory.NewLeagueRepository()
	playerRepo := memory.NewPlayerRepository()

	roster := []string{"p1", "p2"}
	for _, id := range roster {
		if err := playerRepo.Upsert(ctx, player.Player{
			ID: id, Name: id, Club: "club-a", RealTeam: "ACC 1",
			Role: player.RoleBatsman, BaselineMultiplier: 1.0,
			Aggregates: player.SeasonAggregates{TotalPoints: 10},
		}); err != nil {
			t.Fatalf("seed player %s: %v", id, err)
		}
	}

	frozenAt := time.Now()
	snapshot := map[string]float64{"p1": 1.0, "p2": 1.0}
	lg := league.League{
		ID: "l1", Name: "n", Status: league.StatusActive,
		Rules:               league.Rules{SquadSize: 2, MaxPlayersPerRealTeam: 2},
		RosterPlayerIDs:     roster,
		MultipliersSnapshot: snapshot,
		MultipliersFrozenAt: &frozenAt,
	}
	if err := leagueRepo.Create(ctx, lg); err != nil {
		t.Fatalf("create league: %v", err)
	}

	svc := NewDriftService(leagueRepo, playerRepo, nil, DefaultDriftRate, player.MinMultiplier, player.MaxMultiplier, nil)
	if err := svc.DriftLeague(ctx, "l1", roster); err != nil {
		t.Fatalf("drift league: %v", err)
	}

	updated, _, _ := leagueRepo.GetByID(ctx, "l1")
	if updated.MultipliersSnapshot["p1"] != 1.0 {
		t.Fatalf("expected multiplier to be untouched when fewer than 3 distinct scores exist")
	}
}

func TestTargetMultiplier_WorkedExample(t *testing.T) {
	got := TargetMultiplier(40, 10, 30, 90, player.MinMultiplier, player.MaxMultiplier)
	want := 0.948
	if diff := got - want; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("expected target ~%v, got %v", want, got)
	}
}
