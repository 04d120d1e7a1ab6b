package filesystem

import (
	"time"

	"github.com/reglet-dev/capmodel/snapshot"
)

// FormatVersion is written to every snapshot file.
const FormatVersion = "1.0.0"

// supportedFormats is the semver constraint a file's format_version must satisfy.
const supportedFormats = "^1.0"

// Document represents the YAML structure of a snapshot file.
type Document struct {
	Generated     time.Time            `yaml:"generated"`
	FormatVersion string               `yaml:"format_version"`
	Records       []snapshot.RecordDTO `yaml:"records"`
}
