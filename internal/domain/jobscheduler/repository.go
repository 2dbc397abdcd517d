package jobscheduler

import "context"

// Repository persists the ingestion run audit trail.
type Repository interface {
	UpsertEvent(ctx context.Context, event IngestionRunEvent) error
	ListRecent(ctx context.Context, limit int) ([]IngestionRunEvent, error)
}
