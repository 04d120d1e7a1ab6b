package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/schema"
)

// SchemaValidator validates payloads with schemas from a schema registry.
// Compiled schemas are cached per tag.
type SchemaValidator struct {
	registry schema.CapabilityRegistry
	compiled map[capability.Tag]*jsonschema.Schema
	mu       sync.Mutex
}

var _ CapabilityValidator = (*SchemaValidator)(nil)

// NewSchemaValidator creates a validator backed by registry.
func NewSchemaValidator(registry schema.CapabilityRegistry) *SchemaValidator {
	return &SchemaValidator{
		registry: registry,
		compiled: make(map[capability.Tag]*jsonschema.Schema),
	}
}

// Validate checks payload against the schema for tag.
// Tags without a registered schema are accepted.
func (v *SchemaValidator) Validate(tag capability.Tag, payload map[string]interface{}) (*ValidationResult, error) {
	sch, ok, err := v.schemaFor(tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	doc, err := normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s payload: %w", tag, err)
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validating %s payload: %w", tag, err)
		}
		res := &ValidationResult{Valid: false}
		collect(tag, ve, &res.Errors)
		return res, nil
	}
	return &ValidationResult{Valid: true}, nil
}

// ValidateThing validates, for every extractor in extractors, the subset of
// raw consumed by that extractor. Capabilities absent from raw are skipped.
func (v *SchemaValidator) ValidateThing(raw map[string]interface{}, extractors *capability.Registry) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}
	for _, tag := range extractors.Tags() {
		ext, _ := extractors.Get(tag)
		subset := make(map[string]interface{})
		for _, k := range ext.Keys() {
			if val, ok := raw[k]; ok {
				subset[k] = val
			}
		}
		if len(subset) == 0 {
			continue
		}
		res, err := v.Validate(tag, subset)
		if err != nil {
			return nil, err
		}
		result.merge(res)
	}
	return result, nil
}

func (v *SchemaValidator) schemaFor(tag capability.Tag) (*jsonschema.Schema, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sch, ok := v.compiled[tag]; ok {
		return sch, true, nil
	}

	src, ok := v.registry.GetSchema(tag)
	if !ok {
		return nil, false, nil
	}

	url := "https://capmodel.local/schemas/" + tag.String() + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
		return nil, false, fmt.Errorf("loading %s schema: %w", tag, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, false, fmt.Errorf("compiling %s schema: %w", tag, err)
	}
	v.compiled[tag] = sch
	return sch, true, nil
}

// normalize re-decodes payload so numbers and nested values have the JSON
// types the schema library expects.
func normalize(payload map[string]interface{}) (interface{}, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func collect(tag capability.Tag, ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s%s: %s", tag, loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collect(tag, c, out)
	}
}
