package registry

import (
	"iter"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/entities"
)

// ModelRegistry stores the latest record per resource id and merges
// capability updates per tag.
type ModelRegistry interface {
	// Upsert creates or replaces the record for id. Base fields are replaced
	// wholesale; each supplied tag replaces that tag's view; other tags are kept.
	Upsert(id string, fields map[string]any, caps map[capability.Tag]capability.View) (*entities.Record, error)

	// UpsertSnapshot is Upsert for a caller-built snapshot.
	UpsertSnapshot(snapshot entities.Snapshot) (*entities.Record, error)

	// Get returns the record for id.
	Get(id string) (*entities.Record, bool, error)

	// Remove deletes the record for id and reports whether it existed.
	Remove(id string) (bool, error)

	// Query returns the records matching pred over a snapshot taken at call time.
	Query(pred Predicate) iter.Seq[*entities.Record]

	// Len returns the number of records.
	Len() int
}
