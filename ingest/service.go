// Package ingest feeds parsed thing payloads into a model registry.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/extractor"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/parser"
	"github.com/reglet-dev/capmodel/registry"
	"github.com/reglet-dev/capmodel/validation"
)

// ErrValidation is returned when a thing fails schema validation.
var ErrValidation = errors.New("thing failed validation")

// ThingValidator validates the raw data of a thing.
type ThingValidator interface {
	ValidateThing(raw map[string]interface{}, extractors *capability.Registry) (*validation.ValidationResult, error)
}

// Rejection records one thing that was not upserted.
type Rejection struct {
	Err error
	ID  string
}

// Result summarizes an ingestion batch.
type Result struct {
	Upserted []*entities.Record
	Rejected []Rejection
}

// Service orchestrates parse, validate and upsert.
type Service struct {
	parser     parser.SnapshotParser
	registry   registry.ModelRegistry
	validator  ThingValidator
	extractors *capability.Registry
	logger     *slog.Logger
	failFast   bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// NewService creates an ingestion service.
// Parser and registry are required dependencies.
func NewService(p parser.SnapshotParser, reg registry.ModelRegistry, opts ...ServiceOption) *Service {
	s := &Service{
		parser:     p,
		registry:   reg,
		extractors: extractor.DefaultRegistry(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithValidator validates every thing before conversion.
func WithValidator(v ThingValidator) ServiceOption {
	return func(s *Service) { s.validator = v }
}

// WithExtractors sets the capability extractors used for conversion.
func WithExtractors(r *capability.Registry) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.extractors = r
		}
	}
}

// WithFailFast aborts the batch on the first rejected thing instead of
// recording it and continuing.
func WithFailFast(failFast bool) ServiceOption {
	return func(s *Service) { s.failFast = failFast }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Ingest decodes data and upserts every thing it contains, in document order.
func (s *Service) Ingest(ctx context.Context, data []byte) (*Result, error) {
	things, err := s.parser.Things(data)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	result := &Result{}
	for _, thing := range things {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		id, _ := thing.ID()
		snapshot, err := s.prepare(thing)
		if err == nil {
			err = s.upsert(snapshot, result)
		}
		if err != nil {
			if rerr := s.reject(result, id, err); rerr != nil {
				return result, rerr
			}
		}
	}

	s.logger.Info("ingestion finished",
		"things", len(things),
		"upserted", len(result.Upserted),
		"rejected", len(result.Rejected))
	return result, nil
}

// IngestSnapshots upserts already parsed snapshots.
func (s *Service) IngestSnapshots(ctx context.Context, snapshots []entities.Snapshot) (*Result, error) {
	result := &Result{}
	for _, snap := range snapshots {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.upsert(snap, result); err != nil {
			if rerr := s.reject(result, snap.ID, err); rerr != nil {
				return result, rerr
			}
		}
	}
	return result, nil
}

func (s *Service) prepare(thing parser.Thing) (entities.Snapshot, error) {
	if s.validator != nil {
		res, err := s.validator.ValidateThing(thing.Data, s.extractors)
		if err != nil {
			return entities.Snapshot{}, fmt.Errorf("validation failed: %w", err)
		}
		if !res.Valid {
			return entities.Snapshot{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(res.Errors, "; "))
		}
	}
	return parser.ToSnapshot(thing, s.extractors)
}

func (s *Service) upsert(snap entities.Snapshot, result *Result) error {
	rec, err := s.registry.UpsertSnapshot(snap)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	result.Upserted = append(result.Upserted, rec)
	return nil
}

func (s *Service) reject(result *Result, id string, err error) error {
	if s.failFast {
		return fmt.Errorf("thing %q: %w", id, err)
	}
	s.logger.Warn("thing rejected", "id", id, "error", err)
	result.Rejected = append(result.Rejected, Rejection{ID: id, Err: err})
	return nil
}
