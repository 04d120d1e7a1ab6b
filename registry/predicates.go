package registry

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/model/values"
)

// Predicate selects records in Query.
type Predicate func(*entities.Record) bool

// All matches every record.
func All() Predicate {
	return func(*entities.Record) bool { return true }
}

// ByKind matches records of the given kind.
func ByKind(kind values.Kind) Predicate {
	return func(r *entities.Record) bool { return r.Kind() == kind }
}

// HasCapability matches records carrying tag.
func HasCapability(tag capability.Tag) Predicate {
	return func(r *entities.Record) bool { return r.HasCapability(tag) }
}

// IDMatches matches record ids against a glob such as "t3_*" or "t[13]_a*".
func IDMatches(pattern string) (Predicate, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid id pattern %q", pattern)
	}
	return func(r *entities.Record) bool {
		ok, err := doublestar.Match(pattern, r.ID().String())
		return err == nil && ok
	}, nil
}

// Gilded matches records whose effective gild count is positive.
func Gilded() Predicate {
	return func(r *entities.Record) bool {
		gv, ok := entities.CapabilityAs[capability.GildableView](r, capability.Gildable)
		return ok && gv.EffectiveCount() > 0
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(r *entities.Record) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(r *entities.Record) bool {
		for _, p := range preds {
			if p != nil && p(r) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(r *entities.Record) bool { return !p(r) }
}
