package ruleset

import "context"

// Repository loads versioned rulesets. Tuning a rate is a data migration
// against this store, never a code change.
type Repository interface {
	Get(ctx context.Context, version string) (Ruleset, bool, error)
	Current(ctx context.Context) (Ruleset, error)
}
