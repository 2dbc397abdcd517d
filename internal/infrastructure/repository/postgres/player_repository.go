package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// PlayerRepository persists the process-scoped player roster and each
// player's running season aggregates.
type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// executor returns the transaction bound to ctx by Transactor.WithinTx, or
// falls back to the repository's own pooled connection outside of one.
func (r *PlayerRepository) executor(ctx context.Context) dbExecutor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.executor(ctx).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}
	p, err := rowToPlayer(row)
	if err != nil {
		return player.Player{}, false, err
	}
	return p, true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select("*").From("players").
		Where(qb.In("public_id", stringSliceToAny(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return rowsToPlayers(rows)
}

func (r *PlayerRepository) FindByClub(ctx context.Context, club string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("club", club)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find players by club query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by club: %w", err)
	}
	return rowsToPlayers(rows)
}

func (r *PlayerRepository) All(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	var conditions []qb.Condition
	if filter.Club != "" {
		conditions = append(conditions, qb.Eq("club", filter.Club))
	}
	if filter.RealTeam != "" {
		conditions = append(conditions, qb.Eq("real_team", filter.RealTeam))
	}
	if filter.Role != "" {
		conditions = append(conditions, qb.Eq("role", string(filter.Role)))
	}

	query, args, err := qb.Select("*").From("players").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	return rowsToPlayers(rows)
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	processed, err := marshalJSON(stringSetToSlice(p.ProcessedMatchIDs))
	if err != nil {
		return err
	}

	insertModel := playerInsertModel{
		PublicID:           p.ID,
		Name:               p.Name,
		Club:               p.Club,
		RealTeam:           p.RealTeam,
		Role:               string(p.Role),
		BaselineMultiplier: p.BaselineMultiplier,
		MatchesPlayed:      p.Aggregates.MatchesPlayed,
		Runs:               p.Aggregates.Runs,
		BallsFaced:         p.Aggregates.BallsFaced,
		Dismissals:         p.Aggregates.Dismissals,
		Fifties:            p.Aggregates.Fifties,
		Hundreds:           p.Aggregates.Hundreds,
		BallsBowled:        p.Aggregates.BallsBowled,
		RunsConceded:       p.Aggregates.RunsConceded,
		Wickets:            p.Aggregates.Wickets,
		Maidens:            p.Aggregates.Maidens,
		FiveWicketHauls:    p.Aggregates.FiveWicketHauls,
		Catches:            p.Aggregates.Catches,
		Stumpings:          p.Aggregates.Stumpings,
		Runouts:            p.Aggregates.Runouts,
		TotalPoints:        p.Aggregates.TotalPoints,
		ProcessedMatchIDs:  processed,
	}

	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    club = EXCLUDED.club,
    real_team = EXCLUDED.real_team,
    role = EXCLUDED.role,
    baseline_multiplier = EXCLUDED.baseline_multiplier,
    matches_played = EXCLUDED.matches_played,
    runs = EXCLUDED.runs,
    balls_faced = EXCLUDED.balls_faced,
    dismissals = EXCLUDED.dismissals,
    fifties = EXCLUDED.fifties,
    hundreds = EXCLUDED.hundreds,
    balls_bowled = EXCLUDED.balls_bowled,
    runs_conceded = EXCLUDED.runs_conceded,
    wickets = EXCLUDED.wickets,
    maidens = EXCLUDED.maidens,
    five_wicket_hauls = EXCLUDED.five_wicket_hauls,
    catches = EXCLUDED.catches,
    stumpings = EXCLUDED.stumpings,
    runouts = EXCLUDED.runouts,
    total_points = EXCLUDED.total_points,
    processed_match_ids = EXCLUDED.processed_match_ids,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}
	if _, err := r.executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player id=%s: %w", p.ID, err)
	}
	return nil
}

func rowsToPlayers(rows []playerTableModel) ([]player.Player, error) {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		p, err := rowToPlayer(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func rowToPlayer(row playerTableModel) (player.Player, error) {
	var processed []string
	if err := unmarshalJSON(row.ProcessedMatchIDs, &processed); err != nil {
		return player.Player{}, err
	}

	return player.Player{
		ID:                 row.PublicID,
		Name:               row.Name,
		Club:               row.Club,
		RealTeam:           row.RealTeam,
		Role:               player.Role(row.Role),
		BaselineMultiplier: row.BaselineMultiplier,
		Aggregates: player.SeasonAggregates{
			MatchesPlayed:   row.MatchesPlayed,
			Runs:            row.Runs,
			BallsFaced:      row.BallsFaced,
			Dismissals:      row.Dismissals,
			Fifties:         row.Fifties,
			Hundreds:        row.Hundreds,
			BallsBowled:     row.BallsBowled,
			RunsConceded:    row.RunsConceded,
			Wickets:         row.Wickets,
			Maidens:         row.Maidens,
			FiveWicketHauls: row.FiveWicketHauls,
			Catches:         row.Catches,
			Stumpings:       row.Stumpings,
			Runouts:         row.Runouts,
			TotalPoints:     row.TotalPoints,
		},
		ProcessedMatchIDs: stringSliceToSet(processed),
	}, nil
}
