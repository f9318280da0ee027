package out

import (
	"context"
	"time"
)

// ResultCache defines the outbound port for caching finished triage results,
// keyed by a digest of the submitted text. A cache is optional; a nil-safe
// no-op implementation is acceptable.
type ResultCache interface {
	// GetJSON unmarshals a cached value into dest. The boolean reports a hit.
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	// SetJSON marshals value and stores it under key with the given TTL.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
