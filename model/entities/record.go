// Package entities contains the domain entities of the model registry.
package entities

import (
	"reflect"
	"sort"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/values"
)

// Record is an immutable snapshot of one remote resource plus its capabilities.
//
// Invariants:
// - At most one view per tag, and every view carries the tag it is stored under
// - Fields and capabilities never change after construction
type Record struct {
	fields       map[string]any
	capabilities map[capability.Tag]capability.View
	id           values.ResourceID
	kind         values.Kind
}

// NewRecord creates a record. Fields are deep-copied; every (tag, view) pair is
// checked and a mismatch returns a *ShapeMismatchError.
func NewRecord(
	id values.ResourceID,
	kind values.Kind,
	fields map[string]any,
	caps map[capability.Tag]capability.View,
) (*Record, error) {
	if id.IsEmpty() {
		return nil, &InvalidIDError{ID: "", Reason: "id cannot be empty"}
	}
	for tag, view := range caps {
		if err := checkShape(tag, view); err != nil {
			return nil, err
		}
	}
	if kind == "" {
		kind = id.Kind()
	}

	r := &Record{
		id:           id,
		kind:         kind,
		fields:       CloneFields(fields),
		capabilities: make(map[capability.Tag]capability.View, len(caps)),
	}
	for tag, view := range caps {
		r.capabilities[tag] = view
	}
	return r, nil
}

// ID returns the resource id.
func (r *Record) ID() values.ResourceID {
	return r.id
}

// Kind returns the resource kind.
func (r *Record) Kind() values.Kind {
	return r.kind
}

// Fields returns a deep copy of the base fields.
func (r *Record) Fields() map[string]any {
	return CloneFields(r.fields)
}

// Field returns a copy of one base field.
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Capability returns the view stored for tag.
func (r *Record) Capability(tag capability.Tag) (capability.View, bool) {
	v, ok := r.capabilities[tag]
	return v, ok
}

// HasCapability reports whether the record carries tag.
func (r *Record) HasCapability(tag capability.Tag) bool {
	_, ok := r.capabilities[tag]
	return ok
}

// Tags returns the carried tags in sorted order.
func (r *Record) Tags() []capability.Tag {
	tags := make([]capability.Tag, 0, len(r.capabilities))
	for t := range r.capabilities {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Capabilities returns a copy of the tag to view mapping.
func (r *Record) Capabilities() map[capability.Tag]capability.View {
	out := make(map[capability.Tag]capability.View, len(r.capabilities))
	for t, v := range r.capabilities {
		out[t] = v
	}
	return out
}

// WithCapability returns a new record with tag's view added or replaced.
func (r *Record) WithCapability(tag capability.Tag, view capability.View) (*Record, error) {
	if err := checkShape(tag, view); err != nil {
		return nil, err
	}
	next := r.shallowCopy()
	next.capabilities[tag] = view
	return next, nil
}

// WithoutCapability returns a new record without tag's view.
func (r *Record) WithoutCapability(tag capability.Tag) *Record {
	next := r.shallowCopy()
	delete(next.capabilities, tag)
	return next
}

// Equal compares id, kind, fields and capabilities structurally.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.id.Equals(other.id) || r.kind != other.kind {
		return false
	}
	if len(r.capabilities) != len(other.capabilities) {
		return false
	}
	for tag, v := range r.capabilities {
		ov, ok := other.capabilities[tag]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return fieldsEqual(r.fields, other.fields)
}

// shallowCopy shares the immutable fields map and copies the capability map.
func (r *Record) shallowCopy() *Record {
	caps := make(map[capability.Tag]capability.View, len(r.capabilities)+1)
	for t, v := range r.capabilities {
		caps[t] = v
	}
	return &Record{
		id:           r.id,
		kind:         r.kind,
		fields:       r.fields,
		capabilities: caps,
	}
}

// CapabilityAs returns the record's view for tag narrowed to its concrete type.
func CapabilityAs[V capability.View](r *Record, tag capability.Tag) (V, bool) {
	var zero V
	if r == nil {
		return zero, false
	}
	v, ok := r.Capability(tag)
	if !ok {
		return zero, false
	}
	return capability.AsType[V](v)
}

func fieldsEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Merge applies next on top of prev: base fields and kind come from next,
// each tag carried by next replaces prev's view, and tags only prev carries are kept.
// A nil prev returns next unchanged.
func Merge(prev, next *Record) *Record {
	if prev == nil {
		return next
	}
	merged := next.shallowCopy()
	for tag, view := range prev.capabilities {
		if _, ok := merged.capabilities[tag]; !ok {
			merged.capabilities[tag] = view
		}
	}
	return merged
}
