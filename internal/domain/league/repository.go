package league

import (
	"context"
	"time"
)

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	Create(ctx context.Context, l League) error
	UpdateStatus(ctx context.Context, leagueID string, status Status) error
	// UpdateRules persists a draft-phase rule edit. Callers must verify
	// RulesFrozen() is false before calling this.
	UpdateRules(ctx context.Context, leagueID string, rules Rules) error
	// UpdateRoster replaces a draft-phase league's eligible player pool.
	UpdateRoster(ctx context.Context, leagueID string, playerIDs []string) error
	// CaptureSnapshot atomically persists the multiplier snapshot and the
	// status transition that froze it, so a reader never observes one
	// without the other.
	CaptureSnapshot(ctx context.Context, leagueID string, multipliers map[string]float64, frozenAt time.Time, status Status) error
}
