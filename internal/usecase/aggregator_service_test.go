package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/performance"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

func newTestAggregator(t *testing.T) (*AggregatorService, *memory.PlayerRepository, *memory.PerformanceRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	performanceRepo := memory.NewPerformanceRepository()
	rulesetRepo := memory.NewRulesetRepository("v1", ruleset.V1())

	ctx := context.Background()
	p := player.Player{
		ID:                 "p1",
		Name:               "Test Player",
		Club:               "club-a",
		RealTeam:           "ACC 1",
		Role:               player.RoleBatsman,
		BaselineMultiplier: 1.0,
	}
	if err := playerRepo.Upsert(ctx, p); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	return NewAggregatorService(performanceRepo, playerRepo, rulesetRepo, nil, nil), playerRepo, performanceRepo
}

func TestAggregatorService_UpsertPerformance_ScoresAndFoldsAggregates(t *testing.T) {
	ctx := context.Background()
	svc, playerRepo, _ := newTestAggregator(t)

	rec := performance.Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &performance.BattingFacet{Runs: 105, BallsFaced: 84, Dismissed: true},
	}

	if err := svc.UpsertPerformance(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, found, err := playerRepo.GetByID(ctx, "p1")
	if err != nil || !found {
		t.Fatalf("expected player to be found, err=%v", err)
	}
	if p.Aggregates.MatchesPlayed != 1 {
		t.Fatalf("expected 1 match played, got %d", p.Aggregates.MatchesPlayed)
	}
	if p.Aggregates.Hundreds != 1 {
		t.Fatalf("expected 1 hundred, got %d", p.Aggregates.Hundreds)
	}
	if !almostEqualF(p.Aggregates.TotalPoints, 190.0625) {
		t.Fatalf("expected total points 190.0625, got %v", p.Aggregates.TotalPoints)
	}
	if !p.HasProcessed("m1") {
		t.Fatal("expected match m1 to be marked processed")
	}
}

func TestAggregatorService_UpsertPerformance_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, playerRepo, performanceRepo := newTestAggregator(t)

	rec := performance.Record{
		MatchID:        "m1",
		PlayerID:       "p1",
		RulesetVersion: "v1",
		Batting:        &performance.BattingFacet{Runs: 50, BallsFaced: 40, Dismissed: true},
	}

	if err := svc.UpsertPerformance(ctx, rec); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := svc.UpsertPerformance(ctx, rec); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	p, _, err := playerRepo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	if p.Aggregates.MatchesPlayed != 1 {
		t.Fatalf("expected the retry to be a no-op, matches played = %d", p.Aggregates.MatchesPlayed)
	}

	records, err := performanceRepo.ListByPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(records))
	}
}

func TestAggregatorService_UpsertPerformance_UnknownPlayer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAggregator(t)

	rec := performance.Record{MatchID: "m1", PlayerID: "ghost", RulesetVersion: "v1"}
	err := svc.UpsertPerformance(ctx, rec)
	if err == nil {
		t.Fatal("expected an error for an unregistered player")
	}
}

func almostEqualF(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
