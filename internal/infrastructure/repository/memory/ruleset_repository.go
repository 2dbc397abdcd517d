package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

// RulesetRepository is an in-memory ruleset.Repository. Current resolves
// to the version named at construction, and errors if that version was not
// registered.
type RulesetRepository struct {
	mu      sync.RWMutex
	items   map[string]ruleset.Ruleset
	current string
}

// NewRulesetRepository seeds the store with rulesets and marks current as
// the active version reads should default to.
func NewRulesetRepository(current string, rulesets ...ruleset.Ruleset) *RulesetRepository {
	items := make(map[string]ruleset.Ruleset, len(rulesets))
	for _, rs := range rulesets {
		items[rs.Version] = rs
	}
	return &RulesetRepository{items: items, current: current}
}

func (r *RulesetRepository) Get(_ context.Context, version string) (ruleset.Ruleset, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.items[version]
	return rs, ok, nil
}

func (r *RulesetRepository) Current(_ context.Context) (ruleset.Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.items[r.current]
	if !ok {
		return ruleset.Ruleset{}, fmt.Errorf("no current ruleset registered (want %q)", r.current)
	}
	return rs, nil
}
