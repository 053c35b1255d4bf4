// Package store persists completed company lookups so that re-runs against
// the same firm list do not re-query the paid search and NER APIs.
package store

import (
	"context"
	"time"
)

// Store is the lookup journal and cache.
type Store interface {
	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error
	// GetCached returns the newest unexpired lookup payload for a company,
	// or nil when there is none. Company matching is case-insensitive.
	GetCached(ctx context.Context, company string) (map[string]string, error)
	// Record journals a completed lookup with the given time-to-live.
	Record(ctx context.Context, company string, fields map[string]string, ttl time.Duration) error
	// Close releases the underlying database.
	Close() error
}
