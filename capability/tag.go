// Package capability defines the optional, typed facets a model may carry.
// Each facet is identified by a Tag and exposed through a read-only View.
// It also provides the extractor registry used to decode facets from raw
// wire payloads and the gilding consistency report.
package capability

import (
	"fmt"
	"strings"
)

// Tag identifies a capability. Identity is by value.
type Tag string

// Built-in capability tags. The set is open: ParseTag accepts any well-formed tag.
const (
	Gildable Tag = "gildable"
	Votable  Tag = "votable"
	Editable Tag = "editable"
)

// ParseTag normalizes and validates a tag string.
func ParseTag(s string) (Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("capability tag cannot be empty")
	}
	for _, ch := range s {
		if !isValidTagChar(ch) {
			return "", fmt.Errorf("invalid capability tag %q: must contain only lowercase alphanumeric characters, underscores, and hyphens", s)
		}
	}
	return Tag(s), nil
}

func isValidTagChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-'
}

// String returns the tag name.
func (t Tag) String() string {
	return string(t)
}

// IsZero reports whether the tag is unset.
func (t Tag) IsZero() bool {
	return t == ""
}
