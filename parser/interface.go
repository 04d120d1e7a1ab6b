package parser

import "github.com/reglet-dev/capmodel/model/entities"

// SnapshotParser parses raw thing payloads into snapshots.
type SnapshotParser interface {
	// Things decodes data into things, expanding listings.
	Things(data []byte) ([]Thing, error)

	// Parse decodes data and converts every thing into a snapshot.
	Parse(data []byte) ([]entities.Snapshot, error)
}
