package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/performance"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// PerformanceRepository persists immutable per-match performance records
// and the per-player processed-match dedupe set ingestion relies on for
// idempotent retries.
type PerformanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// executor returns the transaction bound to ctx by Transactor.WithinTx, or
// falls back to the repository's own pooled connection outside of one.
func (r *PerformanceRepository) executor(ctx context.Context) dbExecutor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r *PerformanceRepository) Get(ctx context.Context, matchID, playerID string) (performance.Record, bool, error) {
	query, args, err := qb.Select("*").From("performance_records").
		Where(qb.Eq("match_id", matchID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return performance.Record{}, false, fmt.Errorf("build get performance record query: %w", err)
	}

	var row performanceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return performance.Record{}, false, nil
		}
		return performance.Record{}, false, fmt.Errorf("get performance record: %w", err)
	}
	return rowToRecord(row), true, nil
}

func (r *PerformanceRepository) ListByPlayer(ctx context.Context, playerID string) ([]performance.Record, error) {
	query, args, err := qb.Select("*").From("performance_records").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("scored_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list performance by player query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select performance records by player: %w", err)
	}
	return rowsToRecords(rows), nil
}

func (r *PerformanceRepository) ListByMatch(ctx context.Context, matchID string) ([]performance.Record, error) {
	query, args, err := qb.Select("*").From("performance_records").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list performance by match query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select performance records by match: %w", err)
	}
	return rowsToRecords(rows), nil
}

func (r *PerformanceRepository) Insert(ctx context.Context, record performance.Record) error {
	insertModel := performanceInsertModel{
		MatchID:        record.MatchID,
		PlayerID:       record.PlayerID,
		RulesetVersion: record.RulesetVersion,
		Catches:        record.Fielding.Catches,
		Stumpings:      record.Fielding.Stumpings,
		Runouts:        record.Fielding.Runouts,
		BasePoints:     record.BasePoints,
		ScoredAt:       record.ScoredAt,
	}
	if record.Batting != nil {
		insertModel.BattingRuns = sql.NullInt64{Int64: int64(record.Batting.Runs), Valid: true}
		insertModel.BattingBallsFaced = sql.NullInt64{Int64: int64(record.Batting.BallsFaced), Valid: true}
		insertModel.BattingDismissed = sql.NullBool{Bool: record.Batting.Dismissed, Valid: true}
	}
	if record.Bowling != nil {
		insertModel.BowlingBalls = sql.NullInt64{Int64: int64(record.Bowling.BallsBowled), Valid: true}
		insertModel.BowlingRuns = sql.NullInt64{Int64: int64(record.Bowling.RunsConceded), Valid: true}
		insertModel.BowlingWickets = sql.NullInt64{Int64: int64(record.Bowling.Wickets), Valid: true}
		insertModel.BowlingMaidens = sql.NullInt64{Int64: int64(record.Bowling.Maidens), Valid: true}
	}

	query, args, err := qb.InsertModel("performance_records", insertModel, `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    ruleset_version = EXCLUDED.ruleset_version,
    batting_runs = EXCLUDED.batting_runs,
    batting_balls_faced = EXCLUDED.batting_balls_faced,
    batting_dismissed = EXCLUDED.batting_dismissed,
    bowling_balls_bowled = EXCLUDED.bowling_balls_bowled,
    bowling_runs_conceded = EXCLUDED.bowling_runs_conceded,
    bowling_wickets = EXCLUDED.bowling_wickets,
    bowling_maidens = EXCLUDED.bowling_maidens,
    catches = EXCLUDED.catches,
    stumpings = EXCLUDED.stumpings,
    runouts = EXCLUDED.runouts,
    base_points = EXCLUDED.base_points,
    scored_at = EXCLUDED.scored_at`)
	if err != nil {
		return fmt.Errorf("build insert performance record query: %w", err)
	}
	if _, err := r.executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert performance record match=%s player=%s: %w", record.MatchID, record.PlayerID, err)
	}
	return nil
}

func (r *PerformanceRepository) HasProcessed(ctx context.Context, playerID, matchID string) (bool, error) {
	query, args, err := qb.Select("1").From("performance_processed").
		Where(qb.Eq("player_id", playerID), qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has processed query: %w", err)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check processed match: %w", err)
	}
	return true, nil
}

func (r *PerformanceRepository) MarkProcessed(ctx context.Context, playerID, matchID string) error {
	query, args, err := qb.InsertInto("performance_processed").
		Columns("player_id", "match_id").
		Values(playerID, matchID).
		Suffix("ON CONFLICT (player_id, match_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark processed query: %w", err)
	}
	if _, err := r.executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark processed player=%s match=%s: %w", playerID, matchID, err)
	}
	return nil
}

func rowsToRecords(rows []performanceTableModel) []performance.Record {
	out := make([]performance.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToRecord(row))
	}
	return out
}

func rowToRecord(row performanceTableModel) performance.Record {
	rec := performance.Record{
		MatchID:        row.MatchID,
		PlayerID:       row.PlayerID,
		RulesetVersion: row.RulesetVersion,
		Fielding: performance.FieldingFacet{
			Catches:   row.Catches,
			Stumpings: row.Stumpings,
			Runouts:   row.Runouts,
		},
		BasePoints: row.BasePoints,
		ScoredAt:   row.ScoredAt,
	}
	if row.BattingBallsFaced.Valid {
		rec.Batting = &performance.BattingFacet{
			Runs:       int(row.BattingRuns.Int64),
			BallsFaced: int(row.BattingBallsFaced.Int64),
			Dismissed:  row.BattingDismissed.Bool,
		}
	}
	if row.BowlingBalls.Valid {
		rec.Bowling = &performance.BowlingFacet{
			BallsBowled:  int(row.BowlingBalls.Int64),
			RunsConceded: int(row.BowlingRuns.Int64),
			Wickets:      int(row.BowlingWickets.Int64),
			Maidens:      int(row.BowlingMaidens.Int64),
		}
	}
	return rec
}
