package usecase

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidInput marks validation failures surfaced to the caller unchanged.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")
	// ErrDependencyUnavailable marks a transient failure in an external collaborator.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUnknownPlayer is a programmer error: the aggregator was asked to score
	// a player that was never registered.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrUnsupportedRuleset is a programmer error: the requested scoring ruleset
	// version has no registered tier table.
	ErrUnsupportedRuleset = errors.New("unsupported scoring ruleset")
	// ErrSnapshotMissing is a programmer error: a non-draft league has no
	// multipliers snapshot.
	ErrSnapshotMissing = errors.New("league multiplier snapshot missing")

	// ErrIllegalTransition marks a league lifecycle state-machine violation.
	ErrIllegalTransition = errors.New("illegal league state transition")
	// ErrTeamsNotFinalized marks a lock attempt with unfinalized joined teams.
	ErrTeamsNotFinalized = errors.New("teams not finalized")
	// ErrRosterNotReady marks a confirm attempt whose roster is too small or
	// fails to cover every real-life team the rules require.
	ErrRosterNotReady = errors.New("league roster not ready for confirmation")
	// ErrRulesFrozen marks an attempted rule or roster edit on a league that
	// has already left draft.
	ErrRulesFrozen = errors.New("league rules are frozen")

	// ErrLeagueNotActive marks a team-mutation attempt (join, add/remove
	// player, transfer, finalize) against a league outside the active state.
	ErrLeagueNotActive = errors.New("league is not active")
	// ErrPlayerNotInRoster marks a pick referencing a player outside the
	// league's eligible roster pool.
	ErrPlayerNotInRoster = errors.New("player is not in the league roster")
	// ErrTeamAlreadyJoined marks a second join_league attempt by the same
	// user against the same league.
	ErrTeamAlreadyJoined = errors.New("user already has a team in this league")
	// ErrTeamAlreadyFinalized marks a mutation attempted on a team that has
	// already passed finalize_team.
	ErrTeamAlreadyFinalized = errors.New("team is already finalized")
	// ErrPlayerAlreadyOnTeam marks an add_player for a player already in the
	// squad.
	ErrPlayerAlreadyOnTeam = errors.New("player is already on the team")
	// ErrPlayerNotOnTeam marks a remove_player or transfer-out for a player
	// absent from the squad.
	ErrPlayerNotOnTeam = errors.New("player is not on the team")
	// ErrSquadFull marks an add_player that would exceed the league's squad
	// size.
	ErrSquadFull = errors.New("squad is already full")
	// ErrValidationFailed wraps one or more fantasyteam.ValidationError
	// violations surfaced by a quota or transfer check.
	ErrValidationFailed = errors.New("team validation failed")
)
