package capability

import (
	"errors"
	"fmt"
)

// View is a read-only, tag-discriminated accessor bundle for one capability.
// Implementations are immutable values; Equal compares all fields.
type View interface {
	Tag() Tag
	Equal(other View) bool
}

// ErrInvalidView is returned when a view's fields violate their constraints.
var ErrInvalidView = errors.New("invalid capability view")

// InvalidViewError provides detail about a rejected view.
type InvalidViewError struct {
	Tag    Tag
	Reason string
}

func (e *InvalidViewError) Error() string {
	return fmt.Sprintf("invalid %s view: %s", e.Tag, e.Reason)
}

// Is implements error matching for errors.Is() checks.
func (e *InvalidViewError) Is(target error) bool {
	return target == ErrInvalidView
}

// As returns v if it is non-nil and carries the given tag, otherwise nil.
func As(v View, tag Tag) View {
	if v == nil || v.Tag() != tag {
		return nil
	}
	return v
}

// AsType narrows v to its concrete variant.
//
//	gv, ok := capability.AsType[capability.GildableView](v)
func AsType[V View](v View) (V, bool) {
	var zero V
	if v == nil {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}
