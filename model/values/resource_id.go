// Package values contains immutable value objects for the model domain.
package values

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxResourceIDLength bounds the byte length of a resource id.
const MaxResourceIDLength = 128

// ErrInvalidID is returned when a resource id is empty or malformed.
var ErrInvalidID = errors.New("invalid resource id")

// InvalidIDError describes why an id was rejected.
type InvalidIDError struct {
	ID     string
	Reason string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid resource id %q: %s", e.ID, e.Reason)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, values.ErrInvalidID)
func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}

// ResourceID identifies a remote resource, typically a reddit fullname such as "t3_abc".
type ResourceID struct {
	value string
}

// NewResourceID creates a ResourceID with validation.
// A valid id must:
// - Be non-empty after trimming
// - Contain no whitespace or control characters
// - Be at most MaxResourceIDLength bytes long
func NewResourceID(id string) (ResourceID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ResourceID{}, &InvalidIDError{ID: id, Reason: "id cannot be empty"}
	}

	if len(trimmed) > MaxResourceIDLength {
		return ResourceID{}, &InvalidIDError{
			ID:     id,
			Reason: fmt.Sprintf("id too long (max %d bytes)", MaxResourceIDLength),
		}
	}

	for _, r := range trimmed {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == unicode.ReplacementChar {
			return ResourceID{}, &InvalidIDError{ID: id, Reason: "id contains whitespace or control characters"}
		}
	}

	return ResourceID{value: trimmed}, nil
}

// MustNewResourceID creates a ResourceID or panics
func MustNewResourceID(id string) ResourceID {
	rid, err := NewResourceID(id)
	if err != nil {
		panic(err)
	}
	return rid
}

// String returns the string representation
func (r ResourceID) String() string {
	return r.value
}

// IsEmpty returns true if this is the zero value
func (r ResourceID) IsEmpty() bool {
	return r.value == ""
}

// Equals checks if two ids are equal
func (r ResourceID) Equals(other ResourceID) bool {
	return r.value == other.value
}

// Kind derives the resource kind from the fullname prefix ("t3_abc" -> KindLink).
func (r ResourceID) Kind() Kind {
	prefix, _, found := strings.Cut(r.value, "_")
	if !found {
		return KindUnknown
	}
	return KindFromPrefix(prefix)
}

// MarshalJSON implements json.Marshaler.
func (r ResourceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *ResourceID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid resource id JSON: %w", err)
	}

	id, err := NewResourceID(s)
	if err != nil {
		return err
	}
	*r = id
	return nil
}
