package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

// JobSchedulerRepository persists the ingestion run audit trail.
type JobSchedulerRepository struct {
	db *sqlx.DB
}

func NewJobSchedulerRepository(db *sqlx.DB) *JobSchedulerRepository {
	return &JobSchedulerRepository{db: db}
}

func (r *JobSchedulerRepository) UpsertEvent(ctx context.Context, event jobscheduler.IngestionRunEvent) error {
	clubs, err := marshalJSON(event.Clubs)
	if err != nil {
		return err
	}

	insertModel := ingestionRunInsertModel{
		RunID:         event.RunID,
		Trigger:       event.Trigger,
		Clubs:         clubs,
		Status:        string(event.Status),
		MatchesFound:  event.MatchesFound,
		MatchesScored: event.MatchesScored,
		ErrorMessage:  event.ErrorMessage,
		StartedAt:     event.StartedAt,
		FinishedAt:    event.FinishedAt,
		TraceID:       event.TraceID,
		SpanID:        event.SpanID,
	}

	query, args, err := qb.InsertModel("ingestion_run_events", insertModel, `ON CONFLICT (run_id)
DO UPDATE SET
    status = EXCLUDED.status,
    matches_found = EXCLUDED.matches_found,
    matches_scored = EXCLUDED.matches_scored,
    error_message = EXCLUDED.error_message,
    finished_at = EXCLUDED.finished_at,
    trace_id = EXCLUDED.trace_id,
    span_id = EXCLUDED.span_id`)
	if err != nil {
		return fmt.Errorf("build upsert ingestion run event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ingestion run event run_id=%s: %w", event.RunID, err)
	}
	return nil
}

func (r *JobSchedulerRepository) ListRecent(ctx context.Context, limit int) ([]jobscheduler.IngestionRunEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("ingestion_run_events").
		OrderBy("started_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent ingestion runs query: %w", err)
	}

	var rows []ingestionRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent ingestion runs: %w", err)
	}

	out := make([]jobscheduler.IngestionRunEvent, 0, len(rows))
	for _, row := range rows {
		var clubs []string
		if err := unmarshalJSON(row.Clubs, &clubs); err != nil {
			return nil, err
		}
		out = append(out, jobscheduler.IngestionRunEvent{
			RunID:         row.RunID,
			Trigger:       row.Trigger,
			Clubs:         clubs,
			Status:        jobscheduler.RunStatus(row.Status),
			MatchesFound:  row.MatchesFound,
			MatchesScored: row.MatchesScored,
			ErrorMessage:  row.ErrorMessage,
			StartedAt:     row.StartedAt,
			FinishedAt:    row.FinishedAt,
			TraceID:       row.TraceID,
			SpanID:        row.SpanID,
		})
	}
	return out, nil
}
