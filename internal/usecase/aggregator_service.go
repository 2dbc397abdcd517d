package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/performance"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// Transactor runs fn as a single atomic unit of work; the postgres
// implementation binds a *sqlx.Tx to ctx so repositories sharing that
// connection pool pick it up automatically. A cancellation partway through
// fn leaves every write fn made to roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// noopTransactor runs fn directly against ctx, with no atomicity guarantee.
// It's the zero-value fallback for repositories (e.g. the in-memory ones
// used in tests) that have no shared transaction to join.
type noopTransactor struct{}

func (noopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// AggregatorService turns raw per-match performance facets into scored
// records and folds them into a player's running season totals, exactly
// once per (match, player) pair no matter how many times ingestion retries.
// The three writes per facet (performance record, processed marker, player
// totals) run inside a single transaction, so a cancellation never leaves
// one player's writes half-applied. Each call is its own transaction: other
// players of the same scorecard scored before a cancellation stay committed.
type AggregatorService struct {
	performanceRepo performance.Repository
	playerRepo      player.Repository
	rulesetRepo     ruleset.Repository
	tx              Transactor
	logger          *logging.Logger
}

func NewAggregatorService(
	performanceRepo performance.Repository,
	playerRepo player.Repository,
	rulesetRepo ruleset.Repository,
	tx Transactor,
	logger *logging.Logger,
) *AggregatorService {
	if logger == nil {
		logger = logging.Default()
	}
	if tx == nil {
		tx = noopTransactor{}
	}
	return &AggregatorService{
		performanceRepo: performanceRepo,
		playerRepo:      playerRepo,
		rulesetRepo:     rulesetRepo,
		tx:              tx,
		logger:          logger,
	}
}

// UpsertPerformance scores one raw facet set and merges it into the
// player's totals. A repeat call for an already-processed (match, player)
// pair is a silent no-op, matching the idempotence guarantee ingestion
// retries depend on.
func (s *AggregatorService) UpsertPerformance(ctx context.Context, rec performance.Record) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.UpsertPerformance")
	defer span.End()

	p, found, err := s.playerRepo.GetByID(ctx, rec.PlayerID)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, rec.PlayerID)
	}

	if p.HasProcessed(rec.MatchID) {
		s.logger.DebugContext(ctx, "performance already processed, skipping", "match_id", rec.MatchID, "player_id", rec.PlayerID)
		return nil
	}

	rs, found, err := s.rulesetRepo.Get(ctx, rec.RulesetVersion)
	if err != nil {
		return fmt.Errorf("load ruleset: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnsupportedRuleset, rec.RulesetVersion)
	}

	basePoints, err := performance.Score(rec, rs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rec.BasePoints = basePoints

	p = foldIntoAggregates(p, rec)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.performanceRepo.Insert(ctx, rec); err != nil {
			return fmt.Errorf("insert performance record: %w", err)
		}
		if err := s.performanceRepo.MarkProcessed(ctx, rec.PlayerID, rec.MatchID); err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		if err := s.playerRepo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("persist player totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "performance scored", "match_id", rec.MatchID, "player_id", rec.PlayerID, "base_points", basePoints)
	return nil
}

// AllPlayers lists players matching filter, exposing derived averages
// computed fresh from the stored counters on every call.
func (s *AggregatorService) AllPlayers(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.AllPlayers")
	defer span.End()

	return s.playerRepo.All(ctx, filter)
}

func foldIntoAggregates(p player.Player, rec performance.Record) player.Player {
	if p.ProcessedMatchIDs == nil {
		p.ProcessedMatchIDs = make(map[string]struct{})
	}
	p.ProcessedMatchIDs[rec.MatchID] = struct{}{}

	a := p.Aggregates
	a.MatchesPlayed++
	a.TotalPoints += rec.BasePoints

	if rec.Batting != nil {
		a.Runs += rec.Batting.Runs
		a.BallsFaced += rec.Batting.BallsFaced
		if rec.Batting.Dismissed {
			a.Dismissals++
		}
		switch {
		case rec.Batting.Runs >= 100:
			a.Hundreds++
		case rec.Batting.Runs >= 50:
			a.Fifties++
		}
	}

	if rec.Bowling != nil {
		a.BallsBowled += rec.Bowling.BallsBowled
		a.RunsConceded += rec.Bowling.RunsConceded
		a.Wickets += rec.Bowling.Wickets
		a.Maidens += rec.Bowling.Maidens
		if rec.Bowling.Wickets >= 5 {
			a.FiveWicketHauls++
		}
	}

	a.Catches += rec.Fielding.Catches
	a.Stumpings += rec.Fielding.Stumpings
	a.Runouts += rec.Fielding.Runouts

	p.Aggregates = a
	return p
}
