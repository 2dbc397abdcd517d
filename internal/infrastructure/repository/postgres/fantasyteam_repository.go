package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// FantasyTeamRepository persists one user's joined squad per league.
type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

func (r *FantasyTeamRepository) GetByID(ctx context.Context, teamID string) (fantasyteam.FantasyTeam, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return fantasyteam.FantasyTeam{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasyteam.FantasyTeam{}, false, nil
		}
		return fantasyteam.FantasyTeam{}, false, fmt.Errorf("get team by id: %w", err)
	}
	team, err := rowToFantasyTeam(row)
	if err != nil {
		return fantasyteam.FantasyTeam{}, false, err
	}
	return team, true, nil
}

func (r *FantasyTeamRepository) GetByUserAndLeague(ctx context.Context, userID, leagueID string) (fantasyteam.FantasyTeam, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(qb.Eq("user_id", userID), qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fantasyteam.FantasyTeam{}, false, fmt.Errorf("build get team by user and league query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasyteam.FantasyTeam{}, false, nil
		}
		return fantasyteam.FantasyTeam{}, false, fmt.Errorf("get team by user and league: %w", err)
	}
	team, err := rowToFantasyTeam(row)
	if err != nil {
		return fantasyteam.FantasyTeam{}, false, err
	}
	return team, true, nil
}

func (r *FantasyTeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]fantasyteam.FantasyTeam, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by league query: %w", err)
	}

	var rows []fantasyTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]fantasyteam.FantasyTeam, 0, len(rows))
	for _, row := range rows {
		team, err := rowToFantasyTeam(row)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, nil
}

func (r *FantasyTeamRepository) Upsert(ctx context.Context, team fantasyteam.FantasyTeam) error {
	docs := make([]pickDoc, 0, len(team.Picks))
	for _, pick := range team.Picks {
		docs = append(docs, pickDoc{PlayerID: pick.PlayerID, RealTeam: pick.RealTeam, Role: string(pick.Role)})
	}
	picks, err := marshalJSON(docs)
	if err != nil {
		return err
	}

	insertModel := fantasyTeamInsertModel{
		PublicID:       team.ID,
		LeagueID:       team.LeagueID,
		UserID:         team.UserID,
		Name:           team.Name,
		Picks:          picks,
		CaptainID:      team.CaptainID,
		ViceCaptainID:  team.ViceCaptainID,
		WicketKeeperID: team.WicketKeeperID,
		TransfersUsed:  team.TransfersUsed,
		FinalizedAt:    team.FinalizedAt,
	}

	query, args, err := qb.InsertModel("fantasy_teams", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    user_id = EXCLUDED.user_id,
    name = EXCLUDED.name,
    picks = EXCLUDED.picks,
    captain_id = EXCLUDED.captain_id,
    vice_captain_id = EXCLUDED.vice_captain_id,
    wicket_keeper_id = EXCLUDED.wicket_keeper_id,
    transfers_used = EXCLUDED.transfers_used,
    finalized_at = EXCLUDED.finalized_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%s: %w", team.ID, err)
	}
	return nil
}

func rowToFantasyTeam(row fantasyTeamTableModel) (fantasyteam.FantasyTeam, error) {
	var docs []pickDoc
	if err := unmarshalJSON(row.Picks, &docs); err != nil {
		return fantasyteam.FantasyTeam{}, err
	}

	picks := make([]fantasyteam.TeamPick, 0, len(docs))
	for _, d := range docs {
		picks = append(picks, fantasyteam.TeamPick{PlayerID: d.PlayerID, RealTeam: d.RealTeam, Role: player.Role(d.Role)})
	}

	return fantasyteam.FantasyTeam{
		ID:             row.PublicID,
		LeagueID:       row.LeagueID,
		UserID:         row.UserID,
		Name:           row.Name,
		Picks:          picks,
		CaptainID:      row.CaptainID,
		ViceCaptainID:  row.ViceCaptainID,
		WicketKeeperID: row.WicketKeeperID,
		TransfersUsed:  row.TransfersUsed,
		FinalizedAt:    row.FinalizedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
