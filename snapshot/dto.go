package snapshot

import (
	"fmt"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/extractor"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/model/values"
)

// RecordDTO is the serialized form of a record. Capabilities are stored as
// their flattened wire payload keyed by tag.
type RecordDTO struct {
	Fields       map[string]interface{}            `json:"fields,omitempty" yaml:"fields,omitempty"`
	Capabilities map[string]map[string]interface{} `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	ID           string                            `json:"id" yaml:"id"`
	Kind         string                            `json:"kind" yaml:"kind"`
}

// Codec converts between records and DTOs with a set of extractors.
type Codec struct {
	extractors *capability.Registry
}

// NewCodec creates a codec. A nil registry uses the built-in extractors.
func NewCodec(extractors *capability.Registry) *Codec {
	if extractors == nil {
		extractors = extractor.DefaultRegistry()
	}
	return &Codec{extractors: extractors}
}

// ToDTO flattens a record.
func (c *Codec) ToDTO(r *entities.Record) (RecordDTO, error) {
	flat, err := c.extractors.FlattenAll(r.Capabilities())
	if err != nil {
		return RecordDTO{}, fmt.Errorf("record %s: %w", r.ID(), err)
	}
	dto := RecordDTO{
		ID:     r.ID().String(),
		Kind:   r.Kind().String(),
		Fields: r.Fields(),
	}
	if len(flat) > 0 {
		dto.Capabilities = make(map[string]map[string]interface{}, len(flat))
		for tag, payload := range flat {
			dto.Capabilities[tag.String()] = payload
		}
	}
	return dto, nil
}

// ToDTOs flattens records in order.
func (c *Codec) ToDTOs(records []*entities.Record) ([]RecordDTO, error) {
	out := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		dto, err := c.ToDTO(r)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// FromDTO rebuilds a snapshot, re-extracting every capability from its payload.
func (c *Codec) FromDTO(d RecordDTO) (entities.Snapshot, error) {
	caps := make(map[capability.Tag]capability.View, len(d.Capabilities))
	for name, payload := range d.Capabilities {
		tag, err := capability.ParseTag(name)
		if err != nil {
			return entities.Snapshot{}, fmt.Errorf("record %s: %w", d.ID, err)
		}
		ext, ok := c.extractors.Get(tag)
		if !ok {
			return entities.Snapshot{}, fmt.Errorf("record %s: no extractor registered for capability %q", d.ID, tag)
		}
		view, present, err := ext.Extract(payload)
		if err != nil {
			return entities.Snapshot{}, fmt.Errorf("record %s: extracting %s: %w", d.ID, tag, err)
		}
		if !present {
			return entities.Snapshot{}, fmt.Errorf("record %s: empty %s payload", d.ID, tag)
		}
		caps[tag] = view
	}
	return entities.Snapshot{
		ID:           d.ID,
		Kind:         values.Kind(d.Kind),
		Fields:       d.Fields,
		Capabilities: caps,
	}, nil
}

// FromDTOs rebuilds snapshots in order.
func (c *Codec) FromDTOs(dtos []RecordDTO) ([]entities.Snapshot, error) {
	out := make([]entities.Snapshot, 0, len(dtos))
	for _, d := range dtos {
		s, err := c.FromDTO(d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
