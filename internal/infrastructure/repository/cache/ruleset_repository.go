package cache

import (
	"context"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

// RulesetRepository caches ruleset.Repository reads behind a short TTL.
// Rulesets are published once and never mutated in place, so a cached
// miss only costs one extra read the first time a version is scored.
type RulesetRepository struct {
	next  ruleset.Repository
	cache *basecache.Store
}

func NewRulesetRepository(next ruleset.Repository, cache *basecache.Store) *RulesetRepository {
	return &RulesetRepository{next: next, cache: cache}
}

func (r *RulesetRepository) Get(ctx context.Context, version string) (ruleset.Ruleset, bool, error) {
	key := "ruleset:version:" + version
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, version)
		if err != nil {
			return nil, err
		}
		return cachedRuleset{value: item, exists: exists}, nil
	})
	if err != nil {
		return ruleset.Ruleset{}, false, err
	}

	cached, _ := v.(cachedRuleset)
	return cached.value, cached.exists, nil
}

func (r *RulesetRepository) Current(ctx context.Context) (ruleset.Ruleset, error) {
	v, err := r.cache.GetOrLoad(ctx, "ruleset:current", func(ctx context.Context) (any, error) {
		return r.next.Current(ctx)
	})
	if err != nil {
		return ruleset.Ruleset{}, err
	}

	item, _ := v.(ruleset.Ruleset)
	return item, nil
}

type cachedRuleset struct {
	value  ruleset.Ruleset
	exists bool
}
