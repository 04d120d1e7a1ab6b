package parser

import (
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/extractor"
	"github.com/reglet-dev/capmodel/model/entities"
)

// JSONSnapshotParser implements SnapshotParser for JSON API responses.
type JSONSnapshotParser struct {
	extractors *capability.Registry
}

// NewJSONSnapshotParser creates a new JSONSnapshotParser.
// A nil registry uses the built-in extractors.
func NewJSONSnapshotParser(extractors *capability.Registry) SnapshotParser {
	if extractors == nil {
		extractors = extractor.DefaultRegistry()
	}
	return &JSONSnapshotParser{extractors: extractors}
}

// Things unmarshals JSON bytes into things.
func (p *JSONSnapshotParser) Things(data []byte) ([]Thing, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return flatten(doc)
}

// Parse unmarshals JSON bytes into snapshots.
func (p *JSONSnapshotParser) Parse(data []byte) ([]entities.Snapshot, error) {
	things, err := p.Things(data)
	if err != nil {
		return nil, err
	}
	return toSnapshots(things, p.extractors)
}
