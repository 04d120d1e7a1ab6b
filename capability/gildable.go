package capability

import (
	"fmt"
	"math"
)

// MaxGildCount is the platform bound on the cached gild count (16-bit signed).
const MaxGildCount = math.MaxInt16

// GildableView exposes gilding metadata for models that can receive gold.
//
// The breakdown in Gildings is authoritative; GildCount is a cached
// denormalization that may disagree with it.
type GildableView struct {
	gildings   Gildings
	gildCount  int16
	isGildable bool
}

var _ View = GildableView{}

// NewGildableView creates a gildable view.
// isGildable is the request-context permission computed by the fetch layer and stored verbatim.
func NewGildableView(isGildable bool, gildCount int, gildings Gildings) (GildableView, error) {
	if gildCount < 0 {
		return GildableView{}, &InvalidViewError{Tag: Gildable, Reason: "gild count cannot be negative"}
	}
	if gildCount > MaxGildCount {
		return GildableView{}, &InvalidViewError{
			Tag:    Gildable,
			Reason: fmt.Sprintf("gild count %d exceeds maximum %d", gildCount, MaxGildCount),
		}
	}
	return GildableView{
		isGildable: isGildable,
		gildCount:  int16(gildCount),
		gildings:   gildings,
	}, nil
}

// MustNewGildableView creates a gildable view or panics.
func MustNewGildableView(isGildable bool, gildCount int, gildings Gildings) GildableView {
	v, err := NewGildableView(isGildable, gildCount, gildings)
	if err != nil {
		panic(err)
	}
	return v
}

// Tag returns Gildable.
func (v GildableView) Tag() Tag {
	return Gildable
}

// IsGildable reports whether the current user could gild the model at snapshot time.
func (v GildableView) IsGildable() bool {
	return v.isGildable
}

// GildCount returns the cached count as delivered by the platform.
func (v GildableView) GildCount() int16 {
	return v.gildCount
}

// Gildings returns the per-tier breakdown.
func (v GildableView) Gildings() Gildings {
	return v.gildings
}

// EffectiveCount returns the sum of the breakdown, or the cached count when
// no breakdown is present.
func (v GildableView) EffectiveCount() int {
	if v.gildings.IsEmpty() {
		return int(v.gildCount)
	}
	return v.gildings.Sum()
}

// Consistent reports whether the cached count agrees with the breakdown.
func (v GildableView) Consistent() bool {
	return v.gildings.IsEmpty() || v.gildings.Sum() == int(v.gildCount)
}

// Equal implements View.
func (v GildableView) Equal(other View) bool {
	o, ok := other.(GildableView)
	if !ok {
		return false
	}
	return v.isGildable == o.isGildable &&
		v.gildCount == o.gildCount &&
		v.gildings.Equal(o.gildings)
}
