package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/extractor"
	"github.com/reglet-dev/capmodel/model/entities"
)

// YamlSnapshotParser implements SnapshotParser for YAML fixtures.
type YamlSnapshotParser struct {
	extractors *capability.Registry
}

// NewYamlSnapshotParser creates a new YamlSnapshotParser.
// A nil registry uses the built-in extractors.
func NewYamlSnapshotParser(extractors *capability.Registry) SnapshotParser {
	if extractors == nil {
		extractors = extractor.DefaultRegistry()
	}
	return &YamlSnapshotParser{extractors: extractors}
}

// Things unmarshals YAML bytes into things.
func (p *YamlSnapshotParser) Things(data []byte) ([]Thing, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return flatten(doc)
}

// Parse unmarshals YAML bytes into snapshots.
func (p *YamlSnapshotParser) Parse(data []byte) ([]entities.Snapshot, error) {
	things, err := p.Things(data)
	if err != nil {
		return nil, err
	}
	return toSnapshots(things, p.extractors)
}
