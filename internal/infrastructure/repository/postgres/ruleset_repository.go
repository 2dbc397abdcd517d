package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// RulesetRepository persists versioned scoring rulesets as whole documents;
// tuning a rate is a data migration against this table, never a code
// change.
type RulesetRepository struct {
	db *sqlx.DB
}

func NewRulesetRepository(db *sqlx.DB) *RulesetRepository {
	return &RulesetRepository{db: db}
}

func (r *RulesetRepository) Get(ctx context.Context, version string) (ruleset.Ruleset, bool, error) {
	query, args, err := qb.Select("*").From("rulesets").
		Where(qb.Eq("version", version)).
		ToSQL()
	if err != nil {
		return ruleset.Ruleset{}, false, fmt.Errorf("build get ruleset query: %w", err)
	}

	var row rulesetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ruleset.Ruleset{}, false, nil
		}
		return ruleset.Ruleset{}, false, fmt.Errorf("get ruleset: %w", err)
	}

	var rs ruleset.Ruleset
	if err := unmarshalJSON(row.Document, &rs); err != nil {
		return ruleset.Ruleset{}, false, err
	}
	return rs, true, nil
}

func (r *RulesetRepository) Current(ctx context.Context) (ruleset.Ruleset, error) {
	query, args, err := qb.Select("*").From("rulesets").
		Where(qb.Eq("is_current", true)).
		ToSQL()
	if err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("build get current ruleset query: %w", err)
	}

	var row rulesetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("get current ruleset: %w", err)
	}

	var rs ruleset.Ruleset
	if err := unmarshalJSON(row.Document, &rs); err != nil {
		return ruleset.Ruleset{}, err
	}
	return rs, nil
}

// Upsert persists rs, marking it current if makeCurrent is set and
// demoting any previously current version. Not part of the domain
// Repository interface — exposed for seeding and admin tooling.
func (r *RulesetRepository) Upsert(ctx context.Context, rs ruleset.Ruleset, makeCurrent bool) error {
	doc, err := marshalJSON(rs)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert ruleset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if makeCurrent {
		demoteQuery, demoteArgs, err := qb.Update("rulesets").
			Set("is_current", false).
			Where(qb.Eq("is_current", true)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build demote current ruleset query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, demoteQuery, demoteArgs...); err != nil {
			return fmt.Errorf("demote current ruleset: %w", err)
		}
	}

	insertModel := rulesetInsertModel{Version: rs.Version, IsCurrent: makeCurrent, Document: doc}
	query, args, err := qb.InsertModel("rulesets", insertModel, `ON CONFLICT (version)
DO UPDATE SET
    is_current = EXCLUDED.is_current,
    document = EXCLUDED.document`)
	if err != nil {
		return fmt.Errorf("build insert ruleset query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ruleset version=%s: %w", rs.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert ruleset tx: %w", err)
	}
	return nil
}
