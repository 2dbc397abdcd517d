package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// LeagueRepository persists leagues, their draft-phase rules and roster
// pool, and the multiplier snapshot frozen at confirm.
type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	return rowsToLeagues(rows)
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}
	lg, err := rowToLeague(row)
	if err != nil {
		return league.League{}, false, err
	}
	return lg, true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	roster, err := marshalJSON(l.RosterPlayerIDs)
	if err != nil {
		return err
	}

	insertModel := leagueInsertModel{
		PublicID:                l.ID,
		Name:                    l.Name,
		Status:                  string(l.Status),
		SquadSize:               l.Rules.SquadSize,
		MinBatsmen:              l.Rules.MinBatsmen,
		MinBowlers:              l.Rules.MinBowlers,
		MaxPlayersPerRealTeam:   l.Rules.MaxPlayersPerRealTeam,
		RequireFromEachRealTeam: l.Rules.RequireFromEachRealTeam,
		MinPlayersPerRealTeam:   l.Rules.MinPlayersPerRealTeam,
		RosterPlayerIDs:         roster,
	}

	query, args, err := qb.InsertModel("leagues", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league id=%s: %w", l.ID, err)
	}
	return nil
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID string, status league.Status) error {
	query, args, err := qb.Update("leagues").
		Set("status", string(status)).
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league status id=%s: %w", leagueID, err)
	}
	return nil
}

func (r *LeagueRepository) UpdateRules(ctx context.Context, leagueID string, rules league.Rules) error {
	query, args, err := qb.Update("leagues").
		Set("squad_size", rules.SquadSize).
		Set("min_batsmen", rules.MinBatsmen).
		Set("min_bowlers", rules.MinBowlers).
		Set("max_players_per_real_team", rules.MaxPlayersPerRealTeam).
		Set("require_from_each_real_team", rules.RequireFromEachRealTeam).
		Set("min_players_per_real_team", rules.MinPlayersPerRealTeam).
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league rules query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league rules id=%s: %w", leagueID, err)
	}
	return nil
}

func (r *LeagueRepository) UpdateRoster(ctx context.Context, leagueID string, playerIDs []string) error {
	roster, err := marshalJSON(playerIDs)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("leagues").
		Set("roster_player_ids", roster).
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league roster query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league roster id=%s: %w", leagueID, err)
	}
	return nil
}

func (r *LeagueRepository) CaptureSnapshot(ctx context.Context, leagueID string, multipliers map[string]float64, frozenAt time.Time, status league.Status) error {
	snapshot, err := marshalJSON(multipliers)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("leagues").
		Set("status", string(status)).
		Set("multipliers_snapshot", snapshot).
		Set("multipliers_frozen_at", frozenAt).
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build capture snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("capture snapshot id=%s: %w", leagueID, err)
	}
	return nil
}

func rowsToLeagues(rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		lg, err := rowToLeague(row)
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
	}
	return out, nil
}

func rowToLeague(row leagueTableModel) (league.League, error) {
	var rosterIDs []string
	if err := unmarshalJSON(row.RosterPlayerIDs, &rosterIDs); err != nil {
		return league.League{}, err
	}

	var snapshot map[string]float64
	if len(row.MultipliersSnapshot) > 0 {
		if err := unmarshalJSON(row.MultipliersSnapshot, &snapshot); err != nil {
			return league.League{}, err
		}
	}

	return league.League{
		ID:     row.PublicID,
		Name:   row.Name,
		Status: league.Status(row.Status),
		Rules: league.Rules{
			SquadSize:               row.SquadSize,
			MinBatsmen:              row.MinBatsmen,
			MinBowlers:              row.MinBowlers,
			MaxPlayersPerRealTeam:   row.MaxPlayersPerRealTeam,
			RequireFromEachRealTeam: row.RequireFromEachRealTeam,
			MinPlayersPerRealTeam:   row.MinPlayersPerRealTeam,
		},
		RosterPlayerIDs:     rosterIDs,
		MultipliersSnapshot: snapshot,
		MultipliersFrozenAt: row.MultipliersFrozenAt,
		CreatedAt:           row.CreatedAt,
	}, nil
}
