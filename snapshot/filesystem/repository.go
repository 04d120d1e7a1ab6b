// Package filesystem provides a YAML file repository for registry snapshots.
package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/snapshot"
)

// repositoryConfig holds configuration for the Repository.
type repositoryConfig struct {
	codec    *snapshot.Codec
	logger   *slog.Logger
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func defaultRepositoryConfig() repositoryConfig {
	return repositoryConfig{
		dirPerm:  0o750,
		filePerm: 0o600,
		logger:   slog.Default(),
	}
}

// Option configures a Repository instance.
type Option func(*repositoryConfig)

// WithFilePermissions sets the file permissions for the snapshot file.
func WithFilePermissions(perm os.FileMode) Option {
	return func(c *repositoryConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions for created parent directories.
func WithDirPermissions(perm os.FileMode) Option {
	return func(c *repositoryConfig) {
		c.dirPerm = perm
	}
}

// WithCodec sets the record codec.
func WithCodec(codec *snapshot.Codec) Option {
	return func(c *repositoryConfig) {
		c.codec = codec
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *repositoryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Repository implements snapshot.Repository with a single YAML file.
type Repository struct {
	config repositoryConfig
	path   string
}

var _ snapshot.Repository = (*Repository)(nil)

// NewRepository creates a repository backed by the file at path.
func NewRepository(path string, opts ...Option) *Repository {
	cfg := defaultRepositoryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.codec == nil {
		cfg.codec = snapshot.NewCodec(nil)
	}
	return &Repository{config: cfg, path: path}
}

// Path returns the snapshot file path.
func (r *Repository) Path() string {
	return r.path
}

// Load reads the snapshot file. A missing file yields no snapshots.
func (r *Repository) Load(ctx context.Context) ([]entities.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot YAML: %w", err)
	}

	if err := checkFormat(doc.FormatVersion); err != nil {
		return nil, err
	}

	snaps, err := r.config.codec.FromDTOs(doc.Records)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot file: %w", err)
	}

	r.config.logger.Debug("snapshot file loaded", "path", r.path, "records", len(snaps))
	return snaps, nil
}

// Save writes records to the snapshot file, replacing it atomically.
func (r *Repository) Save(ctx context.Context, records []*entities.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dtos, err := r.config.codec.ToDTOs(records)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(Document{
		FormatVersion: FormatVersion,
		Generated:     time.Now().UTC(),
		Records:       dtos,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, r.config.dirPerm); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Chmod(r.config.filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}

	r.config.logger.Debug("snapshot file saved", "path", r.path, "records", len(dtos))
	return nil
}

func checkFormat(version string) error {
	if version == "" {
		return fmt.Errorf("snapshot file has no format_version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid format_version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return fmt.Errorf("invalid format constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported format_version %s (want %s)", version, supportedFormats)
	}
	return nil
}
