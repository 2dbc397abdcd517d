package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// LeagueLifecycleService drives a league through draft -> active -> locked
// -> completed, enforcing rule-freeze and multiplier-snapshot invariants at
// each boundary.
type LeagueLifecycleService struct {
	leagueRepo league.Repository
	teamRepo   fantasyteam.Repository
	playerRepo player.Repository
	locks      *league.LockRegistry
	validate   *validator.Validate
	now        func() time.Time
	logger     *logging.Logger
}

func NewLeagueLifecycleService(
	leagueRepo league.Repository,
	teamRepo fantasyteam.Repository,
	playerRepo player.Repository,
	locks *league.LockRegistry,
	logger *logging.Logger,
) *LeagueLifecycleService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = league.NewLockRegistry()
	}
	return &LeagueLifecycleService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		locks:      locks,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}
}

// EditRules applies a draft-phase rule edit. Rejected once the league has
// left draft — rules are frozen for the rest of the league's life from that
// point on.
func (s *LeagueLifecycleService) EditRules(ctx context.Context, leagueID string, rules league.Rules) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueLifecycleService.EditRules")
	defer span.End()

	unlock := s.locks.Lock(leagueID)
	defer unlock()

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if lg.RulesFrozen() {
		return fmt.Errorf("%w: league %s is %s", ErrRulesFrozen, leagueID, lg.Status)
	}
	if err := s.validate.StructCtx(ctx, rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.UpdateRules(ctx, leagueID, rules); err != nil {
		return fmt.Errorf("update league rules: %w", err)
	}
	return nil
}

// EditRoster replaces a draft-phase league's eligible player pool. Rejected
// once the league has left draft, matching the rule-freeze boundary.
func (s *LeagueLifecycleService) EditRoster(ctx context.Context, leagueID string, playerIDs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueLifecycleService.EditRoster")
	defer span.End()

	unlock := s.locks.Lock(leagueID)
	defer unlock()

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if lg.RulesFrozen() {
		return fmt.Errorf("%w: league %s is %s", ErrRulesFrozen, leagueID, lg.Status)
	}
	if err := s.leagueRepo.UpdateRoster(ctx, leagueID, playerIDs); err != nil {
		return fmt.Errorf("update league roster: %w", err)
	}
	return nil
}

// Confirm moves a league out of draft: validates the roster is large
// enough and covers every real-life team the rules require representation
// from, freezes the rules (no further edits past this point), and captures
// the multiplier snapshot every later scoring pass reads from. Rules,
// roster check, and snapshot capture happen atomically under the league's
// writer lock so a reader never observes a frozen league without one.
func (s *LeagueLifecycleService) Confirm(ctx context.Context, leagueID string) error {
	return s.transition(ctx, leagueID, league.StatusActive, s.validateAndCaptureOnConfirm)
}

// Lock requires at least one team has joined and every joined team is
// finalized; it holds the league's writer lock for the whole check so a
// concurrent team finalize or drift step cannot race it.
func (s *LeagueLifecycleService) Lock(ctx context.Context, leagueID string) error {
	return s.transition(ctx, leagueID, league.StatusLocked, s.ensureTeamsFinalizable)
}

// Complete closes out a locked league. No further scoring or drift applies
// after this point; the only side effect is exclusion from the drifter's
// candidate set.
func (s *LeagueLifecycleService) Complete(ctx context.Context, leagueID string) error {
	return s.transition(ctx, leagueID, league.StatusCompleted, nil)
}

func (s *LeagueLifecycleService) transition(ctx context.Context, leagueID string, to league.Status, before func(context.Context, league.League) error) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueLifecycleService.transition")
	defer span.End()

	unlock := s.locks.Lock(leagueID)
	defer unlock()

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if !league.CanTransitionTo(lg.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, lg.Status, to)
	}

	if before != nil {
		if err := before(ctx, lg); err != nil {
			return err
		}
	}

	if err := s.leagueRepo.UpdateStatus(ctx, leagueID, to); err != nil {
		return fmt.Errorf("update league status: %w", err)
	}
	s.logger.InfoContext(ctx, "league transitioned", "league_id", leagueID, "status", to)
	return nil
}

func (s *LeagueLifecycleService) ensureTeamsFinalizable(ctx context.Context, lg league.League) error {
	teams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list joined teams: %w", err)
	}
	if len(teams) == 0 {
		return fmt.Errorf("%w: league %s has no joined teams", ErrTeamsNotFinalized, lg.ID)
	}
	for _, team := range teams {
		if !team.Finalized() {
			return fmt.Errorf("%w: team %s has not called finalize_team", ErrTeamsNotFinalized, team.ID)
		}
		if errs := fantasyteam.Validate(team, lg.Rules); len(errs) > 0 {
			return fmt.Errorf("%w: team %s has %d unresolved violations", ErrTeamsNotFinalized, team.ID, len(errs))
		}
	}
	return nil
}

// validateAndCaptureOnConfirm enforces the confirm-transition precondition
// (roster big enough, every real-life team the rules require covered) and
// then snapshots each roster player's current baseline multiplier as the
// league's frozen starting point.
func (s *LeagueLifecycleService) validateAndCaptureOnConfirm(ctx context.Context, lg league.League) error {
	if len(lg.RosterPlayerIDs) < lg.Rules.SquadSize {
		return fmt.Errorf("%w: league %s roster has %d players, needs at least %d", ErrRosterNotReady, lg.ID, len(lg.RosterPlayerIDs), lg.Rules.SquadSize)
	}

	players, err := s.playerRepo.GetByIDs(ctx, lg.RosterPlayerIDs)
	if err != nil {
		return fmt.Errorf("load roster players: %w", err)
	}
	if len(players) != len(lg.RosterPlayerIDs) {
		return fmt.Errorf("%w: league %s roster references %d unknown player id(s)", ErrRosterNotReady, lg.ID, len(lg.RosterPlayerIDs)-len(players))
	}

	if lg.Rules.RequireFromEachRealTeam {
		perRealTeam := make(map[string]int)
		for _, p := range players {
			perRealTeam[p.RealTeam]++
		}
		var short []string
		for realTeam, count := range perRealTeam {
			if count < lg.Rules.MinPlayersPerRealTeam {
				short = append(short, realTeam)
			}
		}
		if len(short) > 0 {
			return fmt.Errorf("%w: league %s roster under-covers real team(s) %v", ErrRosterNotReady, lg.ID, short)
		}
	}

	snapshot := make(map[string]float64, len(players))
	for _, p := range players {
		snapshot[p.ID] = p.BaselineMultiplier
	}

	frozenAt := s.now()
	if err := s.leagueRepo.CaptureSnapshot(ctx, lg.ID, snapshot, frozenAt, league.StatusActive); err != nil {
		return fmt.Errorf("capture multiplier snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "league confirmed with multiplier snapshot", "league_id", lg.ID, "players", len(snapshot))
	return nil
}
