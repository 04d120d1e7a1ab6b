// Package parser decodes reddit thing envelopes into registry snapshots.
package parser

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/model/values"
)

// ErrMalformedThing is returned when a payload is not a thing, a listing or an array of them.
var ErrMalformedThing = errors.New("malformed thing")

const (
	kindListing = "Listing"
	kindMore    = "more"
)

// Thing is one decoded {"kind": ..., "data": {...}} envelope.
type Thing struct {
	Data map[string]interface{} `json:"data" yaml:"data"`
	Kind string                 `json:"kind" yaml:"kind"`
}

// ID returns the fullname of the thing: data.name, or kind_data.id.
func (t Thing) ID() (string, error) {
	if name, ok := t.Data["name"].(string); ok && name != "" {
		return name, nil
	}
	if id, ok := t.Data["id"].(string); ok && id != "" && t.Kind != "" {
		return t.Kind + "_" + id, nil
	}
	return "", fmt.Errorf("%w: %s thing has neither name nor id", ErrMalformedThing, t.Kind)
}

// ToSnapshot splits a thing into base fields and extracted capabilities.
// Keys consumed by any registered extractor are left out of the base fields.
func ToSnapshot(t Thing, extractors *capability.Registry) (entities.Snapshot, error) {
	id, err := t.ID()
	if err != nil {
		return entities.Snapshot{}, err
	}

	caps, err := extractors.ExtractAll(t.Data)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("thing %s: %w", id, err)
	}

	consumed := extractors.ConsumedKeys()
	fields := make(map[string]interface{}, len(t.Data))
	for k, v := range t.Data {
		if _, skip := consumed[k]; !skip {
			fields[k] = v
		}
	}

	kind := values.KindFromPrefix(t.Kind)
	if !kind.IsKnown() {
		kind = ""
	}

	return entities.Snapshot{
		ID:           id,
		Kind:         kind,
		Fields:       fields,
		Capabilities: caps,
	}, nil
}

// flatten turns a decoded document into things. Listings are expanded
// recursively and "more" placeholders are dropped.
func flatten(doc interface{}) ([]Thing, error) {
	switch v := doc.(type) {
	case []interface{}:
		var out []Thing
		for i, item := range v {
			things, err := flatten(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, things...)
		}
		return out, nil
	case map[string]interface{}:
		return flattenEnvelope(v)
	default:
		return nil, fmt.Errorf("%w: expected object or array, got %T", ErrMalformedThing, doc)
	}
}

func flattenEnvelope(m map[string]interface{}) ([]Thing, error) {
	kind, _ := m["kind"].(string)
	if kind == "" {
		return nil, fmt.Errorf("%w: missing kind", ErrMalformedThing)
	}
	data, ok := m["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s has no data object", ErrMalformedThing, kind)
	}

	switch kind {
	case kindMore:
		return nil, nil
	case kindListing:
		children, ok := data["children"].([]interface{})
		if !ok {
			if data["children"] == nil {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: listing children is %T", ErrMalformedThing, data["children"])
		}
		return flatten(children)
	}

	var out []Thing
	// Comment trees nest replies as a listing inside the thing.
	if replies, ok := data["replies"].(map[string]interface{}); ok {
		nested, err := flattenEnvelope(replies)
		if err != nil {
			return nil, fmt.Errorf("replies: %w", err)
		}
		data = withoutKey(data, "replies")
		out = append(out, Thing{Kind: kind, Data: data})
		return append(out, nested...), nil
	}
	return []Thing{{Kind: kind, Data: data}}, nil
}

func withoutKey(m map[string]interface{}, key string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func toSnapshots(things []Thing, extractors *capability.Registry) ([]entities.Snapshot, error) {
	out := make([]entities.Snapshot, 0, len(things))
	for _, t := range things {
		s, err := ToSnapshot(t, extractors)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
