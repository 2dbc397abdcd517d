package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// RosterRepository persists the per-club legacy/active promotion state the
// name matcher's tie-breaking rule reads.
type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByPlayer(ctx context.Context, playerID string) (roster.Entry, bool, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build get roster entry query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("get roster entry: %w", err)
	}
	return rowToRosterEntry(row), true, nil
}

func (r *RosterRepository) ListByClub(ctx context.Context, club string) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(qb.Eq("club", club)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster entries by club query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster entries by club: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToRosterEntry(row))
	}
	return out, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, entry roster.Entry) error {
	insertModel := rosterInsertModel{
		PlayerID:    entry.PlayerID,
		Club:        entry.Club,
		Status:      string(entry.Status),
		ImportedAt:  entry.ImportedAt,
		ConfirmedAt: entry.ConfirmedAt,
	}

	query, args, err := qb.InsertModel("roster_entries", insertModel, `ON CONFLICT (player_id)
DO UPDATE SET
    club = EXCLUDED.club,
    status = EXCLUDED.status,
    imported_at = EXCLUDED.imported_at,
    confirmed_at = EXCLUDED.confirmed_at`)
	if err != nil {
		return fmt.Errorf("build upsert roster entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert roster entry player=%s: %w", entry.PlayerID, err)
	}
	return nil
}

func rowToRosterEntry(row rosterTableModel) roster.Entry {
	return roster.Entry{
		PlayerID:    row.PlayerID,
		Club:        row.Club,
		Status:      roster.Status(row.Status),
		ImportedAt:  row.ImportedAt,
		ConfirmedAt: row.ConfirmedAt,
	}
}
