package capability

import (
	"fmt"
	"sort"
	"sync"
)

// Extractor decodes one capability from a raw wire payload and encodes it back.
// Implementations contain the platform-specific field names for their tag.
type Extractor interface {
	// Tag returns the capability this extractor produces.
	Tag() Tag

	// Keys returns the wire keys the extractor consumes.
	Keys() []string

	// Extract builds the view from raw fields. ok is false when the payload
	// does not carry the capability at all.
	Extract(raw map[string]interface{}) (view View, ok bool, err error)

	// Flatten encodes a view back into wire keys.
	Flatten(view View) (map[string]interface{}, error)
}

// Registry manages the registration and retrieval of capability extractors.
type Registry struct {
	extractors map[Tag]Extractor
	mu         sync.RWMutex
}

// NewRegistry creates a new, empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[Tag]Extractor),
	}
}

// Register adds an extractor, replacing any previous one for the same tag.
func (r *Registry) Register(extractor Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.Tag()] = extractor
}

// Get retrieves the extractor for a given tag.
// Returns nil and false if no extractor is registered.
func (r *Registry) Get(tag Tag) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	extractor, ok := r.extractors[tag]
	return extractor, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]Tag, 0, len(r.extractors))
	for t := range r.extractors {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// ConsumedKeys returns the set of wire keys claimed by any extractor.
func (r *Registry) ConsumedKeys() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make(map[string]struct{})
	for _, e := range r.extractors {
		for _, k := range e.Keys() {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// ExtractAll runs every registered extractor against raw and collects the
// capabilities present in it.
func (r *Registry) ExtractAll(raw map[string]interface{}) (map[Tag]View, error) {
	views := make(map[Tag]View)
	for _, tag := range r.Tags() {
		extractor, ok := r.Get(tag)
		if !ok {
			continue
		}
		view, present, err := extractor.Extract(raw)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", tag, err)
		}
		if present {
			views[tag] = view
		}
	}
	return views, nil
}

// FlattenAll encodes views through their extractors. Views without a
// registered extractor are reported as an error.
func (r *Registry) FlattenAll(views map[Tag]View) (map[Tag]map[string]interface{}, error) {
	out := make(map[Tag]map[string]interface{}, len(views))
	for tag, view := range views {
		extractor, ok := r.Get(tag)
		if !ok {
			return nil, fmt.Errorf("no extractor registered for capability %q", tag)
		}
		fields, err := extractor.Flatten(view)
		if err != nil {
			return nil, fmt.Errorf("flattening %s: %w", tag, err)
		}
		out[tag] = fields
	}
	return out, nil
}
