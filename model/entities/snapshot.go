package entities

import (
	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/values"
)

// Snapshot is a caller-supplied, point-in-time representation of a resource,
// assumed authoritative at upsert time.
type Snapshot struct {
	// Fields holds the opaque base fields.
	Fields map[string]any

	// Capabilities holds the views supplied with this snapshot, keyed by tag.
	Capabilities map[capability.Tag]capability.View

	// ID is the raw resource id (e.g. "t3_abc").
	ID string

	// Kind overrides the kind derived from the id when non-empty.
	Kind values.Kind
}

// ToRecord validates the snapshot and builds a standalone record.
func (s Snapshot) ToRecord() (*Record, error) {
	id, err := values.NewResourceID(s.ID)
	if err != nil {
		return nil, err
	}
	return NewRecord(id, s.Kind, s.Fields, s.Capabilities)
}

// SnapshotOf converts a record back into a snapshot carrying all of its capabilities.
func SnapshotOf(r *Record) Snapshot {
	return Snapshot{
		ID:           r.ID().String(),
		Kind:         r.Kind(),
		Fields:       r.Fields(),
		Capabilities: r.Capabilities(),
	}
}
