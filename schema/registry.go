// Package schema implements a registry of JSON schemas for capability wire payloads.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/extractor"
)

// Registry implements CapabilityRegistry using in-memory storage.
type Registry struct {
	schemas    map[capability.Tag]string
	mu         sync.RWMutex
	strictMode bool
	reflector  *jsonschema.Reflector
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithStrictMode rejects wire keys not declared by generated schemas.
func WithStrictMode(strict bool) RegistryOption {
	return func(r *Registry) {
		r.strictMode = strict
	}
}

// NewRegistry creates a new schema registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		schemas:    make(map[capability.Tag]string),
		strictMode: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.reflector = &jsonschema.Reflector{
		Anonymous:                  true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  !r.strictMode,
	}

	return r
}

// DefaultRegistry returns a registry holding the schemas of the built-in
// reddit capabilities.
func DefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)
	defaults := []struct {
		tag   capability.Tag
		model interface{}
	}{
		{capability.Gildable, extractor.GildableWire{}},
		{capability.Votable, extractor.VotableWire{}},
		{capability.Editable, extractor.EditableSchema},
	}
	for _, d := range defaults {
		if err := r.Register(d.tag, d.model); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a schema for a capability tag.
// model can be a Go struct (to generate schema) or a raw JSON schema string/map/bytes.
func (r *Registry) Register(tag capability.Tag, model interface{}) error {
	if tag.IsZero() {
		return fmt.Errorf("capability tag cannot be empty")
	}

	schemaStr, err := r.render(model)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[tag]; exists {
		return fmt.Errorf("capability schema already registered: %s", tag)
	}
	r.schemas[tag] = schemaStr
	return nil
}

func (r *Registry) render(model interface{}) (string, error) {
	switch v := model.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal schema map: %w", err)
		}
		return string(b), nil
	}

	t := reflect.TypeOf(model)
	if t == nil || !(t.Kind() == reflect.Struct || (t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct)) {
		return "", fmt.Errorf("unsupported schema model %T", model)
	}

	s := r.reflector.Reflect(model)
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return string(b), nil
}

// GetSchema retrieves the JSON Schema for a capability tag.
func (r *Registry) GetSchema(tag capability.Tag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[tag]
	return s, ok
}

// List returns all registered tags in sorted order.
func (r *Registry) List() []capability.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]capability.Tag, 0, len(r.schemas))
	for t := range r.schemas {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

var _ CapabilityRegistry = (*Registry)(nil)
