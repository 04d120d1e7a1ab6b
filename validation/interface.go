// Package validation checks raw capability wire payloads against their JSON schemas.
package validation

import "github.com/reglet-dev/capmodel/capability"

// CapabilityValidator validates capability payloads against a schema.
type CapabilityValidator interface {
	// Validate checks that payload matches the schema registered for tag.
	Validate(tag capability.Tag, payload map[string]interface{}) (*ValidationResult, error)
}

// ValidationResult reports the outcome of a validation.
type ValidationResult struct {
	// Errors lists one "location: message" entry per violated constraint.
	Errors []string
	Valid  bool
}

func (r *ValidationResult) merge(other *ValidationResult) {
	if other == nil || other.Valid {
		return
	}
	r.Valid = false
	r.Errors = append(r.Errors, other.Errors...)
}
