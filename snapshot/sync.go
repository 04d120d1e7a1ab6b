package snapshot

import (
	"context"
	"fmt"
	"slices"

	"github.com/reglet-dev/capmodel/registry"
)

// Persist saves every record currently held by reg.
func Persist(ctx context.Context, repo Repository, reg registry.ModelRegistry) error {
	records := slices.Collect(reg.Query(nil))
	if err := repo.Save(ctx, records); err != nil {
		return fmt.Errorf("persisting registry: %w", err)
	}
	return nil
}

// Restore loads the stored records and upserts them into reg in saved order.
// It stops at the first rejected snapshot and returns how many were applied.
func Restore(ctx context.Context, repo Repository, reg registry.ModelRegistry) (int, error) {
	snapshots, err := repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading snapshots: %w", err)
	}
	for i, s := range snapshots {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := reg.UpsertSnapshot(s); err != nil {
			return i, fmt.Errorf("restoring %s: %w", s.ID, err)
		}
	}
	return len(snapshots), nil
}
