package fantasyteam

import (
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

// Error codes returned by Validate and ValidateTransfer. Callers match on
// Code rather than error identity since a single validation run can surface
// more than one violation.
const (
	CodeSquadWrongSize           = "SQUAD_WRONG_SIZE"
	CodeBelowMinBatsmen          = "BELOW_MIN_BATSMEN"
	CodeBelowMinBowlers          = "BELOW_MIN_BOWLERS"
	CodeExceedsMaxPerRealTeam    = "EXCEEDS_MAX_PER_REAL_TEAM"
	CodeMissingRealTeams         = "MISSING_REQUIRED_REAL_TEAMS"
	CodeDuplicatePlayer          = "DUPLICATE_PLAYER"
	CodeDuplicateCaptaincy       = "DUPLICATE_CAPTAINCY_SLOT"
	CodeCaptainNotInSquad        = "CAPTAIN_NOT_IN_SQUAD"
	CodeLoneRepresentativeRemoved = "LONE_REPRESENTATIVE_REMOVED"
	CodeNotFinalizable           = "NOT_FINALIZABLE"
	CodeWicketKeeperNotInSquad   = "WICKET_KEEPER_NOT_IN_SQUAD"
	CodeWicketKeeperNotEligible  = "WICKET_KEEPER_NOT_ELIGIBLE"
)

// ValidationError is one structured quota or transfer violation.
type ValidationError struct {
	Code           string
	OffendingField string
	Message        string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Validate checks a full, finalized squad against a league's rules. It
// collects every violation instead of stopping at the first so a caller can
// surface everything wrong with one round trip.
func Validate(team FantasyTeam, rules league.Rules) []ValidationError {
	var errs []ValidationError

	if len(team.Picks) != rules.SquadSize {
		errs = append(errs, ValidationError{
			Code:           CodeSquadWrongSize,
			OffendingField: "picks",
			Message:        fmt.Sprintf("squad must have exactly %d players, got %d", rules.SquadSize, len(team.Picks)),
		})
	}

	seen := make(map[string]struct{}, len(team.Picks))
	perRealTeam := make(map[string]int)
	batsmen, bowlers := 0, 0

	for _, pick := range team.Picks {
		if _, dup := seen[pick.PlayerID]; dup {
			errs = append(errs, ValidationError{
				Code:           CodeDuplicatePlayer,
				OffendingField: pick.PlayerID,
				Message:        fmt.Sprintf("player %s selected more than once", pick.PlayerID),
			})
			continue
		}
		seen[pick.PlayerID] = struct{}{}
		perRealTeam[pick.RealTeam]++

		switch pick.Role {
		case player.RoleBatsman:
			batsmen++
		case player.RoleBowler:
			bowlers++
		case player.RoleAllRounder, player.RoleWicketKeeper:
			// neither quota counts an all-rounder or keeper
		}
	}

	if batsmen < rules.MinBatsmen {
		errs = append(errs, ValidationError{
			Code:           CodeBelowMinBatsmen,
			OffendingField: "picks",
			Message:        fmt.Sprintf("squad needs at least %d batsmen, has %d", rules.MinBatsmen, batsmen),
		})
	}
	if bowlers < rules.MinBowlers {
		errs = append(errs, ValidationError{
			Code:           CodeBelowMinBowlers,
			OffendingField: "picks",
			Message:        fmt.Sprintf("squad needs at least %d bowlers, has %d", rules.MinBowlers, bowlers),
		})
	}

	for realTeam, count := range perRealTeam {
		if count > rules.MaxPlayersPerRealTeam {
			errs = append(errs, ValidationError{
				Code:           CodeExceedsMaxPerRealTeam,
				OffendingField: realTeam,
				Message:        fmt.Sprintf("at most %d players allowed from %s, got %d", rules.MaxPlayersPerRealTeam, realTeam, count),
			})
		}
	}

	if rules.RequireFromEachRealTeam {
		for realTeam, count := range perRealTeam {
			if count < rules.MinPlayersPerRealTeam {
				errs = append(errs, ValidationError{
					Code:           CodeMissingRealTeams,
					OffendingField: realTeam,
					Message:        fmt.Sprintf("at least %d players required from %s, got %d", rules.MinPlayersPerRealTeam, realTeam, count),
				})
			}
		}
	}

	errs = append(errs, validateCaptaincy(team)...)
	errs = append(errs, validateWicketKeeper(team)...)

	return errs
}

// validateWicketKeeper checks the team's designated wicket-keeper, if any,
// is one of the squad's own picks and is keeper-eligible. Unlike captaincy,
// the designation is optional: a squad without one still validates.
func validateWicketKeeper(team FantasyTeam) []ValidationError {
	var errs []ValidationError

	if team.WicketKeeperID == "" {
		return errs
	}

	pick, ok := team.PickByPlayer(team.WicketKeeperID)
	if !ok {
		errs = append(errs, ValidationError{Code: CodeWicketKeeperNotInSquad, OffendingField: "wicket_keeper_id", Message: "wicket-keeper must be one of the squad's picks"})
		return errs
	}
	if pick.Role != player.RoleWicketKeeper {
		errs = append(errs, ValidationError{Code: CodeWicketKeeperNotEligible, OffendingField: "wicket_keeper_id", Message: "wicket-keeper designation requires a keeper-eligible player"})
	}

	return errs
}

func validateCaptaincy(team FantasyTeam) []ValidationError {
	var errs []ValidationError

	if team.CaptainID == "" {
		errs = append(errs, ValidationError{Code: CodeNotFinalizable, OffendingField: "captain_id", Message: "captain must be designated"})
	} else if _, ok := team.PickByPlayer(team.CaptainID); !ok {
		errs = append(errs, ValidationError{Code: CodeCaptainNotInSquad, OffendingField: "captain_id", Message: "captain must be one of the squad's picks"})
	}

	if team.ViceCaptainID == "" {
		errs = append(errs, ValidationError{Code: CodeNotFinalizable, OffendingField: "vice_captain_id", Message: "vice-captain must be designated"})
	} else if _, ok := team.PickByPlayer(team.ViceCaptainID); !ok {
		errs = append(errs, ValidationError{Code: CodeCaptainNotInSquad, OffendingField: "vice_captain_id", Message: "vice-captain must be one of the squad's picks"})
	}

	if team.CaptainID != "" && team.CaptainID == team.ViceCaptainID {
		errs = append(errs, ValidationError{Code: CodeDuplicateCaptaincy, OffendingField: "vice_captain_id", Message: "captain and vice-captain must be different players"})
	}

	return errs
}

// ValidatePartial checks a squad still under construction: duplicate picks
// and the per-real-team ceiling are enforced immediately (there is never a
// legal reason to let either slip past add_player), while the exact squad
// size and role minima are deferred to finalize, since a team mid-build is
// allowed to be short of both.
func ValidatePartial(team FantasyTeam, rules league.Rules) []ValidationError {
	var errs []ValidationError

	if len(team.Picks) > rules.SquadSize {
		errs = append(errs, ValidationError{
			Code:           CodeSquadWrongSize,
			OffendingField: "picks",
			Message:        fmt.Sprintf("squad cannot exceed %d players, has %d", rules.SquadSize, len(team.Picks)),
		})
	}

	seen := make(map[string]struct{}, len(team.Picks))
	for _, pick := range team.Picks {
		if _, dup := seen[pick.PlayerID]; dup {
			errs = append(errs, ValidationError{
				Code:           CodeDuplicatePlayer,
				OffendingField: pick.PlayerID,
				Message:        fmt.Sprintf("player %s selected more than once", pick.PlayerID),
			})
			continue
		}
		seen[pick.PlayerID] = struct{}{}
	}

	errs = append(errs, validateRealTeamCaps(team.Picks, rules)...)
	return errs
}

// ValidateTransfer is a preflight check for swapping playerOut for playerIn.
// It exists separately from Validate because a transfer only needs to prove
// the post-swap squad still satisfies the real-team quota that the outgoing
// player might have been the sole representative of; re-running the whole
// squad validator would also flag already-accepted, unrelated state.
func ValidateTransfer(team FantasyTeam, rules league.Rules, playerOut, playerIn TeamPick) []ValidationError {
	var errs []ValidationError

	if _, ok := team.PickByPlayer(playerOut.PlayerID); !ok {
		errs = append(errs, ValidationError{Code: CodeCaptainNotInSquad, OffendingField: playerOut.PlayerID, Message: "player to transfer out is not in the squad"})
		return errs
	}

	next := make([]TeamPick, 0, len(team.Picks))
	for _, p := range team.Picks {
		if p.PlayerID == playerOut.PlayerID {
			continue
		}
		next = append(next, p)
	}
	next = append(next, playerIn)

	if rules.RequireFromEachRealTeam {
		perRealTeam := make(map[string]int)
		for _, p := range next {
			perRealTeam[p.RealTeam]++
		}
		if count := perRealTeam[playerOut.RealTeam]; count < rules.MinPlayersPerRealTeam {
			errs = append(errs, ValidationError{
				Code:           CodeLoneRepresentativeRemoved,
				OffendingField: playerOut.RealTeam,
				Message:        fmt.Sprintf("removing %s would drop %s below the required %d players", playerOut.PlayerID, playerOut.RealTeam, rules.MinPlayersPerRealTeam),
			})
		}
	}

	errs = append(errs, validateRealTeamCaps(next, rules)...)
	return errs
}

func validateRealTeamCaps(picks []TeamPick, rules league.Rules) []ValidationError {
	var errs []ValidationError
	perRealTeam := make(map[string]int)
	for _, p := range picks {
		perRealTeam[p.RealTeam]++
	}
	for realTeam, count := range perRealTeam {
		if count > rules.MaxPlayersPerRealTeam {
			errs = append(errs, ValidationError{
				Code:           CodeExceedsMaxPerRealTeam,
				OffendingField: realTeam,
				Message:        fmt.Sprintf("at most %d players allowed from %s, got %d", rules.MaxPlayersPerRealTeam, realTeam, count),
			})
		}
	}
	return errs
}
