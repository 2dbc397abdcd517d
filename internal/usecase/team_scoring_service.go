package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/performance"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

const (
	captainMultiplier     = 2.0
	viceCaptainMultiplier = 1.5
)

// PlayerScore is one squad member's contribution to a team's total.
type PlayerScore struct {
	PlayerID   string
	BasePoints float64
	WKBonus    float64
	Multiplier float64
	RoleFactor float64
	TeamPoints float64
}

// TeamScore is the result of scoring one fantasy team against its league's
// frozen multiplier snapshot.
type TeamScore struct {
	TeamID       string
	TotalPoints  float64
	PlayerScores []PlayerScore
}

// TeamScoringService computes a joined team's total points from its
// players' season-to-date performance records and the league's frozen
// snapshot, applying wicket-keeper catch-doubling before captaincy
// multipliers.
type TeamScoringService struct {
	leagueRepo      league.Repository
	performanceRepo performance.Repository
	rulesetRepo     ruleset.Repository
	playerRepo      player.Repository
}

func NewTeamScoringService(
	leagueRepo league.Repository,
	performanceRepo performance.Repository,
	rulesetRepo ruleset.Repository,
	playerRepo player.Repository,
) *TeamScoringService {
	return &TeamScoringService{
		leagueRepo:      leagueRepo,
		performanceRepo: performanceRepo,
		rulesetRepo:     rulesetRepo,
		playerRepo:      playerRepo,
	}
}

// ScoreTeam computes TeamScore for team within its league.
func (s *TeamScoringService) ScoreTeam(ctx context.Context, lg league.League, team fantasyteam.FantasyTeam) (TeamScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamScoringService.ScoreTeam")
	defer span.End()

	if !lg.HasSnapshot() {
		return TeamScore{}, fmt.Errorf("%w: league %s", ErrSnapshotMissing, lg.ID)
	}

	result := TeamScore{TeamID: team.ID}
	for _, pick := range team.Picks {
		records, err := s.performanceRepo.ListByPlayer(ctx, pick.PlayerID)
		if err != nil {
			return TeamScore{}, fmt.Errorf("load performance records: %w", err)
		}

		var base, wkBonus float64
		for _, rec := range records {
			base += rec.BasePoints
			if pick.PlayerID == team.WicketKeeperID {
				rs, found, err := s.rulesetRepo.Get(ctx, rec.RulesetVersion)
				if err != nil {
					return TeamScore{}, fmt.Errorf("load ruleset: %w", err)
				}
				if found {
					// Fielding points already counted catches once inside
					// base_points; doubling the wicket-keeper's catch credit
					// means adding that same rate a second time.
					wkBonus += float64(rec.Fielding.Catches) * rs.CatchPoints
				}
			}
		}

		multiplier, ok := lg.MultipliersSnapshot[pick.PlayerID]
		if !ok {
			p, found, err := s.playerRepo.GetByID(ctx, pick.PlayerID)
			if err != nil {
				return TeamScore{}, fmt.Errorf("load player: %w", err)
			}
			if found {
				multiplier = p.BaselineMultiplier
			} else {
				multiplier = player.MinMultiplier
			}
		}

		roleFactor := 1.0
		switch pick.PlayerID {
		case team.CaptainID:
			roleFactor = captainMultiplier
		case team.ViceCaptainID:
			roleFactor = viceCaptainMultiplier
		}

		playerPoints := (base + wkBonus) * multiplier * roleFactor

		result.PlayerScores = append(result.PlayerScores, PlayerScore{
			PlayerID:   pick.PlayerID,
			BasePoints: base,
			WKBonus:    wkBonus,
			Multiplier: multiplier,
			RoleFactor: roleFactor,
			TeamPoints: playerPoints,
		})
		result.TotalPoints += playerPoints
	}

	return result, nil
}
