// Package registry implements the in-memory model registry: the latest
// record per resource id with capability-aware merge-on-update.
package registry

import (
	"iter"
	"log/slog"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/model/values"
)

var _ ModelRegistry = (*Registry)(nil)

// Registry implements ModelRegistry using in-memory storage.
// Records are kept in first-insertion order of their ids.
type Registry struct {
	records *orderedmap.OrderedMap[string, *entities.Record]
	logger  *slog.Logger
	metrics *Metrics
	mu      sync.RWMutex
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records operation counts and registry size.
func WithMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates an empty registry.
func New(opts ...RegistryOption) *Registry {
	r := &Registry{
		records: orderedmap.New[string, *entities.Record](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert creates or replaces the record for id.
func (r *Registry) Upsert(
	id string,
	fields map[string]any,
	caps map[capability.Tag]capability.View,
) (*entities.Record, error) {
	return r.UpsertSnapshot(entities.Snapshot{
		ID:           id,
		Fields:       fields,
		Capabilities: caps,
	})
}

// UpsertSnapshot creates or replaces the record described by snapshot.
// On error the registry is left unchanged.
func (r *Registry) UpsertSnapshot(snapshot entities.Snapshot) (*entities.Record, error) {
	// Validation and field copying happen before the lock is taken.
	incoming, err := snapshot.ToRecord()
	if err != nil {
		r.reject(opUpsert, snapshot.ID, err)
		return nil, err
	}

	key := incoming.ID().String()

	r.mu.Lock()
	prev, existed := r.records.Get(key)
	stored := entities.Merge(prev, incoming)
	r.records.Set(key, stored)
	size := r.records.Len()
	r.mu.Unlock()

	r.metrics.observe(opUpsert, resultOK, size)
	r.logger.Debug("record upserted",
		"id", key,
		"kind", stored.Kind(),
		"replaced", existed,
		"capabilities", len(stored.Tags()),
	)
	return stored, nil
}

// Get returns the record for id.
func (r *Registry) Get(id string) (*entities.Record, bool, error) {
	rid, err := values.NewResourceID(id)
	if err != nil {
		r.reject(opGet, id, err)
		return nil, false, err
	}

	r.mu.RLock()
	rec, ok := r.records.Get(rid.String())
	r.mu.RUnlock()

	return rec, ok, nil
}

// Remove deletes the record for id and reports whether it existed.
func (r *Registry) Remove(id string) (bool, error) {
	rid, err := values.NewResourceID(id)
	if err != nil {
		r.reject(opRemove, id, err)
		return false, err
	}

	r.mu.Lock()
	_, existed := r.records.Delete(rid.String())
	size := r.records.Len()
	r.mu.Unlock()

	result := resultOK
	if !existed {
		result = resultMissing
	}
	r.metrics.observe(opRemove, result, size)
	r.logger.Debug("record removed", "id", rid.String(), "existed", existed)
	return existed, nil
}

// Query returns the records matching pred (all records when pred is nil).
// The record set is copied under the read lock when Query is called; ranging
// over the result never blocks writers and may be repeated.
func (r *Registry) Query(pred Predicate) iter.Seq[*entities.Record] {
	r.mu.RLock()
	snapshot := make([]*entities.Record, 0, r.records.Len())
	for pair := r.records.Oldest(); pair != nil; pair = pair.Next() {
		snapshot = append(snapshot, pair.Value)
	}
	r.mu.RUnlock()

	return func(yield func(*entities.Record) bool) {
		for _, rec := range snapshot {
			if pred != nil && !pred(rec) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records.Len()
}

// Clear drops every record.
func (r *Registry) Clear() {
	r.mu.Lock()
	dropped := r.records.Len()
	r.records = orderedmap.New[string, *entities.Record]()
	r.mu.Unlock()

	r.metrics.observe(opClear, resultOK, 0)
	r.logger.Debug("registry cleared", "dropped", dropped)
}

func (r *Registry) reject(op, id string, err error) {
	r.metrics.observe(op, resultRejected, -1)
	r.logger.Warn("registry operation rejected", "op", op, "id", id, "error", err)
}
