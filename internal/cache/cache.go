package cache

import (
	"context"
	"time"
)

// Cache is the common interface over the in-memory and redis backends
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

const (
	// DefaultExpiration lets the backend pick its configured default TTL
	DefaultExpiration = 0 * time.Second

	// PlanCatalogExpiration bounds staleness of cached plan catalog reads
	PlanCatalogExpiration = 5 * time.Minute
)

// Key prefixes. Resolved prompts are deliberately not cached: each execution
// re-resolves the override cascade so selection is always current.
const (
	PrefixPlan     = "plan"
	PrefixTemplate = "template"
)

// Key joins parts into a cache key
func Key(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += p
	}
	return key
}
