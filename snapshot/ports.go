// Package snapshot persists registry contents through pluggable repositories.
package snapshot

import (
	"context"

	"github.com/reglet-dev/capmodel/model/entities"
)

// Repository stores and retrieves a full set of records.
type Repository interface {
	// Save replaces the stored set with records, preserving their order.
	Save(ctx context.Context, records []*entities.Record) error

	// Load returns the stored records as snapshots in saved order.
	// An empty store yields no snapshots and no error.
	Load(ctx context.Context) ([]entities.Snapshot, error)
}
