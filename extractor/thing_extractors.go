// Package extractor provides capability extraction from reddit thing payloads.
package extractor

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/reglet-dev/capmodel/capability"
)

// Award ids used in the gildings object and the tier names they map to.
var (
	tierByAward = map[string]string{
		"gid_1": "silver",
		"gid_2": "gold",
		"gid_3": "platinum",
	}
	awardByTier = map[string]string{
		"silver":   "gid_1",
		"gold":     "gid_2",
		"platinum": "gid_3",
	}
)

// gildingOrderKey lists award ids in breakdown order. Reddit never sends it;
// Flatten writes it so a stored breakdown keeps its order.
const gildingOrderKey = "gilding_order"

// GildableExtractor reads can_gild, gilded and gildings.
type GildableExtractor struct{}

func (e *GildableExtractor) Tag() capability.Tag { return capability.Gildable }

func (e *GildableExtractor) Keys() []string {
	return []string{"can_gild", "gilded", "gildings", gildingOrderKey}
}

func (e *GildableExtractor) Extract(raw map[string]interface{}) (capability.View, bool, error) {
	if !hasAny(raw, e.Keys()) {
		return nil, false, nil
	}

	canGild, err := boolField(raw, "can_gild")
	if err != nil {
		return nil, false, invalid(capability.Gildable, err)
	}

	gilded := 0
	if v, ok := raw["gilded"]; ok && v != nil {
		if gilded, err = toInt(v); err != nil {
			return nil, false, invalid(capability.Gildable, fmt.Errorf("gilded: %w", err))
		}
	}

	gildings, err := e.extractGildings(raw["gildings"], raw[gildingOrderKey])
	if err != nil {
		return nil, false, err
	}

	view, err := capability.NewGildableView(canGild, gilded, gildings)
	if err != nil {
		return nil, false, err
	}
	return view, true, nil
}

// extractGildings maps award ids to tier names. Awards named in order come
// first; the rest follow in award order.
func (e *GildableExtractor) extractGildings(v, order interface{}) (capability.Gildings, error) {
	if v == nil {
		return capability.NewGildings()
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return capability.Gildings{}, invalid(capability.Gildable, fmt.Errorf("gildings: expected object, got %T", v))
	}

	awards, err := awardOrder(obj, order)
	if err != nil {
		return capability.Gildings{}, invalid(capability.Gildable, err)
	}

	entries := make([]capability.TierCount, 0, len(awards))
	for _, award := range awards {
		count, err := toInt(obj[award])
		if err != nil {
			return capability.Gildings{}, invalid(capability.Gildable, fmt.Errorf("gildings.%s: %w", award, err))
		}
		tier, known := tierByAward[award]
		if !known {
			tier = award
		}
		entries = append(entries, capability.TierCount{Tier: tier, Count: count})
	}
	return capability.NewGildings(entries...)
}

func awardOrder(obj map[string]interface{}, order interface{}) ([]string, error) {
	rest := make([]string, 0, len(obj))
	for k := range obj {
		rest = append(rest, k)
	}
	slices.SortFunc(rest, compareAwards)

	var listed []interface{}
	switch o := order.(type) {
	case nil:
		return rest, nil
	case []interface{}:
		listed = o
	case []string:
		for _, id := range o {
			listed = append(listed, id)
		}
	default:
		return nil, fmt.Errorf("%s: expected list, got %T", gildingOrderKey, order)
	}

	out := make([]string, 0, len(obj))
	seen := make(map[string]bool, len(obj))
	for _, item := range listed {
		award, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected award id, got %T", gildingOrderKey, item)
		}
		if _, present := obj[award]; !present || seen[award] {
			continue
		}
		seen[award] = true
		out = append(out, award)
	}
	for _, award := range rest {
		if !seen[award] {
			out = append(out, award)
		}
	}
	return out, nil
}

// compareAwards orders gid_N ids numerically, ahead of other award ids.
func compareAwards(a, b string) int {
	na, okA := awardNumber(a)
	nb, okB := awardNumber(b)
	switch {
	case okA && okB && na != nb:
		return cmp.Compare(na, nb)
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}
	return strings.Compare(a, b)
}

func awardNumber(award string) (int, bool) {
	digits, ok := strings.CutPrefix(award, "gid_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (e *GildableExtractor) Flatten(view capability.View) (map[string]interface{}, error) {
	gv, ok := capability.AsType[capability.GildableView](view)
	if !ok {
		return nil, fmt.Errorf("expected gildable view, got %T", view)
	}
	gildings := make(map[string]interface{}, gv.Gildings().Len())
	order := make([]interface{}, 0, gv.Gildings().Len())
	for _, p := range gv.Gildings().Pairs() {
		award, known := awardByTier[p.Tier]
		if !known {
			award = p.Tier
		}
		gildings[award] = p.Count
		order = append(order, award)
	}
	return map[string]interface{}{
		"can_gild":      gv.IsGildable(),
		"gilded":        int(gv.GildCount()),
		"gildings":      gildings,
		gildingOrderKey: order,
	}, nil
}

// VotableExtractor reads score, ups, downs and likes.
type VotableExtractor struct{}

func (e *VotableExtractor) Tag() capability.Tag { return capability.Votable }

func (e *VotableExtractor) Keys() []string {
	return []string{"score", "ups", "downs", "likes"}
}

func (e *VotableExtractor) Extract(raw map[string]interface{}) (capability.View, bool, error) {
	if !hasAny(raw, e.Keys()) {
		return nil, false, nil
	}

	var counts [3]int
	for i, key := range []string{"score", "ups", "downs"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		n, err := toInt(v)
		if err != nil {
			return nil, false, invalid(capability.Votable, fmt.Errorf("%s: %w", key, err))
		}
		counts[i] = n
	}

	var likes *bool
	switch v := raw["likes"].(type) {
	case nil:
	case bool:
		likes = &v
	default:
		return nil, false, invalid(capability.Votable, fmt.Errorf("likes: expected bool or null, got %T", v))
	}

	view, err := capability.NewVotableView(counts[0], counts[1], counts[2], likes)
	if err != nil {
		return nil, false, err
	}
	return view, true, nil
}

func (e *VotableExtractor) Flatten(view capability.View) (map[string]interface{}, error) {
	vv, ok := capability.AsType[capability.VotableView](view)
	if !ok {
		return nil, fmt.Errorf("expected votable view, got %T", view)
	}
	var likes interface{}
	if l := vv.Likes(); l != nil {
		likes = *l
	}
	return map[string]interface{}{
		"score": vv.Score(),
		"ups":   vv.Ups(),
		"downs": vv.Downs(),
		"likes": likes,
	}, nil
}

// EditableExtractor reads edited, which is false or a unix timestamp.
type EditableExtractor struct{}

func (e *EditableExtractor) Tag() capability.Tag { return capability.Editable }

func (e *EditableExtractor) Keys() []string { return []string{"edited"} }

func (e *EditableExtractor) Extract(raw map[string]interface{}) (capability.View, bool, error) {
	v, ok := raw["edited"]
	if !ok {
		return nil, false, nil
	}

	switch ts := v.(type) {
	case nil:
		return capability.NewEditableView(false, time.Time{}), true, nil
	case bool:
		// Older things report true without a timestamp.
		return capability.NewEditableView(ts, time.Time{}), true, nil
	default:
		secs, err := toFloat(ts)
		if err != nil {
			return nil, false, invalid(capability.Editable, fmt.Errorf("edited: %w", err))
		}
		if secs < 0 {
			return nil, false, invalid(capability.Editable, fmt.Errorf("edited: negative timestamp %v", secs))
		}
		at := time.UnixMilli(int64(math.Round(secs * 1e3)))
		return capability.NewEditableView(true, at), true, nil
	}
}

func (e *EditableExtractor) Flatten(view capability.View) (map[string]interface{}, error) {
	ev, ok := capability.AsType[capability.EditableView](view)
	if !ok {
		return nil, fmt.Errorf("expected editable view, got %T", view)
	}
	var edited interface{} = false
	switch {
	case !ev.Edited():
	case ev.EditedAt().IsZero():
		edited = true
	case ev.EditedAt().Nanosecond() == 0:
		edited = ev.EditedAt().Unix()
	default:
		edited = float64(ev.EditedAt().UnixMilli()) / 1e3
	}
	return map[string]interface{}{"edited": edited}, nil
}

// Ensure extractors implement the interface.
var (
	_ capability.Extractor = (*GildableExtractor)(nil)
	_ capability.Extractor = (*VotableExtractor)(nil)
	_ capability.Extractor = (*EditableExtractor)(nil)
)

// RegisterDefaultExtractors registers the built-in reddit extractors.
func RegisterDefaultExtractors(registry *capability.Registry) {
	registry.Register(&GildableExtractor{})
	registry.Register(&VotableExtractor{})
	registry.Register(&EditableExtractor{})
}

// DefaultRegistry returns a registry holding the built-in extractors.
func DefaultRegistry() *capability.Registry {
	r := capability.NewRegistry()
	RegisterDefaultExtractors(r)
	return r
}

func hasAny(raw map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

func boolField(raw map[string]interface{}, key string) (bool, error) {
	switch v := raw[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%s: expected bool, got %T", key, v)
	}
}

func invalid(tag capability.Tag, err error) error {
	return &capability.InvalidViewError{Tag: tag, Reason: err.Error()}
}

// toInt accepts the numeric types produced by the JSON and YAML decoders.
func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return int(n), nil
	case uint32:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %s", n)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		i, err := toInt(v)
		if err != nil {
			return 0, err
		}
		return float64(i), nil
	}
}
