package postgres

import "time"

type ingestionRunTableModel struct {
	ID            int64     `db:"id"`
	RunID         string    `db:"run_id"`
	Trigger       string    `db:"trigger"`
	Clubs         []byte    `db:"clubs"`
	Status        string    `db:"status"`
	MatchesFound  int       `db:"matches_found"`
	MatchesScored int       `db:"matches_scored"`
	ErrorMessage  string    `db:"error_message"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
	TraceID       string    `db:"trace_id"`
	SpanID        string    `db:"span_id"`
}

type ingestionRunInsertModel struct {
	RunID         string    `db:"run_id"`
	Trigger       string    `db:"trigger"`
	Clubs         []byte    `db:"clubs"`
	Status        string    `db:"status"`
	MatchesFound  int       `db:"matches_found"`
	MatchesScored int       `db:"matches_scored"`
	ErrorMessage  string    `db:"error_message"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
	TraceID       string    `db:"trace_id"`
	SpanID        string    `db:"span_id"`
}
