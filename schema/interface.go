package schema

import "github.com/reglet-dev/capmodel/capability"

// CapabilityRegistry manages JSON schemas for the wire payload of each capability.
type CapabilityRegistry interface {
	// Register adds a schema for a capability tag.
	// model can be a struct (to generate schema) or a JSON schema string/map.
	Register(tag capability.Tag, model interface{}) error

	// GetSchema returns the JSON schema for a capability tag.
	GetSchema(tag capability.Tag) (string, bool)

	// List returns all registered capability tags.
	List() []capability.Tag
}
