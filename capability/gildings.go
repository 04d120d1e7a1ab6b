package capability

import (
	"fmt"
	"math"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TierCount is one entry of a gilding breakdown.
type TierCount struct {
	Tier  string `json:"tier" yaml:"tier"`
	Count int    `json:"count" yaml:"count"`
}

// Gildings is an ordered, immutable mapping from gift tier to count.
// Order is first-insertion order and participates in equality.
type Gildings struct {
	tiers *orderedmap.OrderedMap[string, int]
}

// NewGildings builds a breakdown from tier counts.
// A repeated tier keeps its first position and takes the last count.
func NewGildings(entries ...TierCount) (Gildings, error) {
	m := orderedmap.New[string, int]()
	for _, e := range entries {
		tier := strings.TrimSpace(e.Tier)
		if tier == "" {
			return Gildings{}, &InvalidViewError{Tag: Gildable, Reason: "gilding tier cannot be empty"}
		}
		if e.Count < 0 {
			return Gildings{}, &InvalidViewError{
				Tag:    Gildable,
				Reason: fmt.Sprintf("gilding count for tier %q cannot be negative", tier),
			}
		}
		m.Set(tier, e.Count)
	}
	return Gildings{tiers: m}, nil
}

// MustNewGildings builds a breakdown or panics.
func MustNewGildings(entries ...TierCount) Gildings {
	g, err := NewGildings(entries...)
	if err != nil {
		panic(err)
	}
	return g
}

// Get returns the count for a tier.
func (g Gildings) Get(tier string) (int, bool) {
	if g.tiers == nil {
		return 0, false
	}
	return g.tiers.Get(tier)
}

// Len returns the number of tiers.
func (g Gildings) Len() int {
	if g.tiers == nil {
		return 0
	}
	return g.tiers.Len()
}

// IsEmpty reports whether the breakdown has no tiers.
func (g Gildings) IsEmpty() bool {
	return g.Len() == 0
}

// Tiers returns the tier ids in order.
func (g Gildings) Tiers() []string {
	out := make([]string, 0, g.Len())
	for _, p := range g.Pairs() {
		out = append(out, p.Tier)
	}
	return out
}

// Pairs returns a copy of the breakdown in order.
func (g Gildings) Pairs() []TierCount {
	if g.tiers == nil {
		return nil
	}
	out := make([]TierCount, 0, g.tiers.Len())
	for pair := g.tiers.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, TierCount{Tier: pair.Key, Count: pair.Value})
	}
	return out
}

// Sum returns the total count across tiers, saturating at math.MaxInt.
func (g Gildings) Sum() int {
	total := 0
	for _, p := range g.Pairs() {
		if p.Count > math.MaxInt-total {
			return math.MaxInt
		}
		total += p.Count
	}
	return total
}

// Equal compares tiers, counts and order.
func (g Gildings) Equal(other Gildings) bool {
	a, b := g.Pairs(), other.Pairs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the breakdown as an ordered JSON object.
func (g Gildings) MarshalJSON() ([]byte, error) {
	if g.tiers == nil {
		return []byte("{}"), nil
	}
	return g.tiers.MarshalJSON()
}

// String renders the breakdown as "tier:count" pairs.
func (g Gildings) String() string {
	parts := make([]string, 0, g.Len())
	for _, p := range g.Pairs() {
		parts = append(parts, fmt.Sprintf("%s:%d", p.Tier, p.Count))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
