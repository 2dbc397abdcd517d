package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// TeamService drives the per-team mutation operations exposed to users:
// join_league, add_player, remove_player, transfer and finalize_team. Every
// mutation is quota-checked through internal/domain/fantasyteam and runs
// under the same per-league writer lock the lifecycle service uses, so a
// team mutation can never race a confirm/lock transition for its league.
type TeamService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	teamRepo   fantasyteam.Repository
	locks      *league.LockRegistry
	idGen      id.Generator
	validate   *validator.Validate
	now        func() time.Time
	logger     *logging.Logger
}

func NewTeamService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	teamRepo fantasyteam.Repository,
	locks *league.LockRegistry,
	idGen id.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = league.NewLockRegistry()
	}
	return &TeamService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		locks:      locks,
		idGen:      idGen,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}
}

// AddPlayerInput carries the optional captaincy/wicket-keeper designations
// that can accompany add_player.
type AddPlayerInput struct {
	PlayerID     string `validate:"required"`
	Captain      bool
	ViceCaptain  bool
	WicketKeeper bool
}

// JoinLeague creates an empty squad for userID in leagueID. The league must
// be active; one team per user per league.
func (s *TeamService) JoinLeague(ctx context.Context, leagueID, userID, teamName string) (fantasyteam.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.JoinLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	teamName = strings.TrimSpace(teamName)
	if leagueID == "" || userID == "" || teamName == "" {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: league id, user id and team name are required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(leagueID)
	defer unlock()

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if lg.Status != league.StatusActive {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: league %s is %s", ErrLeagueNotActive, lg.ID, lg.Status)
	}

	if existing, found, err := s.teamRepo.GetByUserAndLeague(ctx, userID, leagueID); err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("check existing team: %w", err)
	} else if found {
		return existing, fmt.Errorf("%w: team %s", ErrTeamAlreadyJoined, existing.ID)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now()
	team := fantasyteam.FantasyTeam{
		ID:        teamID,
		LeagueID:  leagueID,
		UserID:    userID,
		Name:      teamName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("persist new team: %w", err)
	}
	s.logger.InfoContext(ctx, "team joined league", "team_id", team.ID, "league_id", leagueID, "user_id", userID)
	return team, nil
}

// AddPlayer adds a player to a squad under construction, optionally
// designating them captain, vice-captain or wicket-keeper in the same call.
func (s *TeamService) AddPlayer(ctx context.Context, teamID string, in AddPlayerInput) (fantasyteam.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AddPlayer")
	defer span.End()

	if err := s.validate.StructCtx(ctx, in); err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.withTeamLock(ctx, teamID, func(ctx context.Context, team fantasyteam.FantasyTeam, lg league.League) (fantasyteam.FantasyTeam, error) {
		if team.Finalized() {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrTeamAlreadyFinalized, team.ID)
		}
		if _, ok := team.PickByPlayer(in.PlayerID); ok {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrPlayerAlreadyOnTeam, in.PlayerID)
		}
		if len(team.Picks) >= lg.Rules.SquadSize {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrSquadFull, team.ID)
		}
		if !rosterContains(lg.RosterPlayerIDs, in.PlayerID) {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s not in league %s", ErrPlayerNotInRoster, in.PlayerID, lg.ID)
		}

		p, found, err := s.playerRepo.GetByID(ctx, in.PlayerID)
		if err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("load player: %w", err)
		}
		if !found {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrNotFound, in.PlayerID)
		}

		candidate := team
		candidate.Picks = append(append([]fantasyteam.TeamPick{}, team.Picks...), fantasyteam.TeamPick{
			PlayerID: p.ID,
			RealTeam: p.RealTeam,
			Role:     p.Role,
		})
		if in.Captain {
			candidate.CaptainID = p.ID
		}
		if in.ViceCaptain {
			candidate.ViceCaptainID = p.ID
		}
		if in.WicketKeeper {
			if p.Role != player.RoleWicketKeeper {
				return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: %s: player %s is not keeper-eligible", ErrValidationFailed, fantasyteam.CodeWicketKeeperNotEligible, p.ID)
			}
			candidate.WicketKeeperID = p.ID
		}

		if errs := fantasyteam.ValidatePartial(candidate, lg.Rules); len(errs) > 0 {
			return fantasyteam.FantasyTeam{}, validationErr(errs)
		}

		candidate.UpdatedAt = s.now()
		if err := s.teamRepo.Upsert(ctx, candidate); err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("persist team after add_player: %w", err)
		}
		s.logger.InfoContext(ctx, "player added to team", "team_id", team.ID, "player_id", p.ID)
		return candidate, nil
	})
}

// RemovePlayer drops a player from a squad under construction. A removal
// that would under-cover a required real-life team is allowed here — it
// surfaces at finalize_team instead — since remove_player has no
// replacement to preflight against, unlike transfer. Validate only counts
// real teams that still have a pick, so a removal that takes a real team
// down to zero picks is not flagged at finalize either.
func (s *TeamService) RemovePlayer(ctx context.Context, teamID, playerID string) (fantasyteam.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemovePlayer")
	defer span.End()

	return s.withTeamLock(ctx, teamID, func(ctx context.Context, team fantasyteam.FantasyTeam, lg league.League) (fantasyteam.FantasyTeam, error) {
		if team.Finalized() {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrTeamAlreadyFinalized, team.ID)
		}
		if _, ok := team.PickByPlayer(playerID); !ok {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrPlayerNotOnTeam, playerID)
		}

		candidate := team
		next := make([]fantasyteam.TeamPick, 0, len(team.Picks)-1)
		for _, pick := range team.Picks {
			if pick.PlayerID == playerID {
				continue
			}
			next = append(next, pick)
		}
		candidate.Picks = next
		clearDesignation(&candidate, playerID)

		if errs := fantasyteam.ValidatePartial(candidate, lg.Rules); len(errs) > 0 {
			return fantasyteam.FantasyTeam{}, validationErr(errs)
		}

		candidate.UpdatedAt = s.now()
		if err := s.teamRepo.Upsert(ctx, candidate); err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("persist team after remove_player: %w", err)
		}
		s.logger.InfoContext(ctx, "player removed from team", "team_id", team.ID, "player_id", playerID)
		return candidate, nil
	})
}

// Transfer swaps playerOutID for playerInID as a single atomic operation,
// preflighted by fantasyteam.ValidateTransfer so a lone-representative swap
// is rejected with a helpful message before any state changes.
func (s *TeamService) Transfer(ctx context.Context, teamID, playerOutID, playerInID string) (fantasyteam.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Transfer")
	defer span.End()

	return s.withTeamLock(ctx, teamID, func(ctx context.Context, team fantasyteam.FantasyTeam, lg league.League) (fantasyteam.FantasyTeam, error) {
		if team.Finalized() {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrTeamAlreadyFinalized, team.ID)
		}
		outPick, ok := team.PickByPlayer(playerOutID)
		if !ok {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrPlayerNotOnTeam, playerOutID)
		}
		if _, ok := team.PickByPlayer(playerInID); ok {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrPlayerAlreadyOnTeam, playerInID)
		}
		if !rosterContains(lg.RosterPlayerIDs, playerInID) {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s not in league %s", ErrPlayerNotInRoster, playerInID, lg.ID)
		}

		pIn, found, err := s.playerRepo.GetByID(ctx, playerInID)
		if err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("load incoming player: %w", err)
		}
		if !found {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: player %s", ErrNotFound, playerInID)
		}
		inPick := fantasyteam.TeamPick{PlayerID: pIn.ID, RealTeam: pIn.RealTeam, Role: pIn.Role}

		if errs := fantasyteam.ValidateTransfer(team, lg.Rules, outPick, inPick); len(errs) > 0 {
			return fantasyteam.FantasyTeam{}, validationErr(errs)
		}

		candidate := team
		next := make([]fantasyteam.TeamPick, 0, len(team.Picks))
		for _, pick := range team.Picks {
			if pick.PlayerID == playerOutID {
				continue
			}
			next = append(next, pick)
		}
		candidate.Picks = append(next, inPick)
		clearDesignation(&candidate, playerOutID)
		candidate.TransfersUsed++
		candidate.UpdatedAt = s.now()

		if err := s.teamRepo.Upsert(ctx, candidate); err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("persist team after transfer: %w", err)
		}
		s.logger.InfoContext(ctx, "player transferred", "team_id", team.ID, "player_out", playerOutID, "player_in", playerInID)
		return candidate, nil
	})
}

// FinalizeTeam locks a squad in for scoring once it satisfies every quota
// rule of its league. Finalized teams are immutable to further add/remove/
// transfer calls.
func (s *TeamService) FinalizeTeam(ctx context.Context, teamID string) (fantasyteam.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.FinalizeTeam")
	defer span.End()

	return s.withTeamLock(ctx, teamID, func(ctx context.Context, team fantasyteam.FantasyTeam, lg league.League) (fantasyteam.FantasyTeam, error) {
		if team.Finalized() {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrTeamAlreadyFinalized, team.ID)
		}
		if errs := fantasyteam.Validate(team, lg.Rules); len(errs) > 0 {
			return fantasyteam.FantasyTeam{}, validationErr(errs)
		}

		now := s.now()
		candidate := team
		candidate.FinalizedAt = &now
		candidate.UpdatedAt = now

		if err := s.teamRepo.Upsert(ctx, candidate); err != nil {
			return fantasyteam.FantasyTeam{}, fmt.Errorf("persist team after finalize: %w", err)
		}
		s.logger.InfoContext(ctx, "team finalized", "team_id", team.ID)
		return candidate, nil
	})
}

// withTeamLock loads teamID, acquires its league's writer lock, reloads both
// team and league under the lock for freshness, verifies the league is
// active, and then invokes fn. The initial unlocked load only exists to
// learn which league to lock — every subsequent read happens under it.
func (s *TeamService) withTeamLock(
	ctx context.Context,
	teamID string,
	fn func(ctx context.Context, team fantasyteam.FantasyTeam, lg league.League) (fantasyteam.FantasyTeam, error),
) (fantasyteam.FantasyTeam, error) {
	team, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("load team: %w", err)
	}
	if !found {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	unlock := s.locks.Lock(team.LeagueID)
	defer unlock()

	team, found, err = s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("reload team: %w", err)
	}
	if !found {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	lg, found, err := s.leagueRepo.GetByID(ctx, team.LeagueID)
	if err != nil {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: league %s", ErrNotFound, team.LeagueID)
	}
	if lg.Status != league.StatusActive {
		return fantasyteam.FantasyTeam{}, fmt.Errorf("%w: league %s is %s", ErrLeagueNotActive, lg.ID, lg.Status)
	}

	return fn(ctx, team, lg)
}

func rosterContains(roster []string, playerID string) bool {
	for _, id := range roster {
		if id == playerID {
			return true
		}
	}
	return false
}

// clearDesignation strips any captaincy/vice-captaincy/wicket-keeper slot
// that pointed at playerID — a transfer or removal invalidates that
// designation rather than silently carrying it on a player no longer in
// the squad.
func clearDesignation(team *fantasyteam.FantasyTeam, playerID string) {
	if team.CaptainID == playerID {
		team.CaptainID = ""
	}
	if team.ViceCaptainID == playerID {
		team.ViceCaptainID = ""
	}
	if team.WicketKeeperID == playerID {
		team.WicketKeeperID = ""
	}
}

func validationErr(errs []fantasyteam.ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s[%s]: %s", e.Code, e.OffendingField, e.Message))
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, "; "))
}
