package entities

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/values"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrInvalidID is returned when an id is empty or malformed.
	ErrInvalidID = values.ErrInvalidID

	// ErrShapeMismatch is returned when a view is stored under a tag it does not carry.
	ErrShapeMismatch = errors.New("capability shape mismatch")

	// ErrInvalidView is returned when a view's fields violate their constraints.
	ErrInvalidView = capability.ErrInvalidView
)

// InvalidIDError indicates a rejected id.
type InvalidIDError = values.InvalidIDError

// ShapeMismatchError indicates a view whose declared tag differs from its key.
type ShapeMismatchError struct {
	Key    capability.Tag
	Actual capability.Tag
}

func (e *ShapeMismatchError) Error() string {
	if e.Actual.IsZero() {
		return fmt.Sprintf("capability shape mismatch: no view supplied for tag %q", e.Key)
	}
	return fmt.Sprintf(
		"capability shape mismatch: view tagged %q stored under %q",
		e.Actual,
		e.Key,
	)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, entities.ErrShapeMismatch)
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// checkShape verifies that view is non-nil and carries tag.
func checkShape(tag capability.Tag, view capability.View) error {
	if view == nil {
		return &ShapeMismatchError{Key: tag}
	}
	if view.Tag() != tag {
		return &ShapeMismatchError{Key: tag, Actual: view.Tag()}
	}
	return nil
}
