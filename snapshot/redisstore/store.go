// Package redisstore provides a Redis repository for registry snapshots.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/snapshot"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "capmodel:"

// Key segments below the prefix. Record keys and the index never share a name.
const (
	recordSegment = "record:"
	indexSegment  = "index"
)

// Store implements snapshot.Repository on Redis.
// Each record is a JSON value under <prefix>record:<id>; <prefix>index lists the ids.
type Store struct {
	client *redis.Client
	codec  *snapshot.Codec
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

var _ snapshot.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL expires stored records after ttl. Zero keeps them indefinitely.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithCodec sets the record codec.
func WithCodec(codec *snapshot.Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Redis-backed snapshot store.
//
//	store := redisstore.NewStore(client,
//	    redisstore.WithPrefix("app:records:"),
//	    redisstore.WithTTL(24*time.Hour),
//	)
func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = snapshot.NewCodec(nil)
	}
	return s
}

func (s *Store) indexKey() string {
	return s.prefix + indexSegment
}

func (s *Store) recordKey(id string) string {
	return s.prefix + recordSegment + id
}

// Save replaces the stored set in a single transaction.
func (s *Store) Save(ctx context.Context, records []*entities.Record) error {
	dtos, err := s.codec.ToDTOs(records)
	if err != nil {
		return err
	}

	payloads := make([][]byte, len(dtos))
	for i, dto := range dtos {
		if payloads[i], err = json.Marshal(dto); err != nil {
			return fmt.Errorf("encoding record %s: %w", dto.ID, err)
		}
	}

	previous, err := s.client.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("reading index: %w", err)
	}

	keep := make(map[string]struct{}, len(dtos))
	ids := make([]interface{}, len(dtos))
	for i, dto := range dtos {
		keep[dto.ID] = struct{}{}
		ids[i] = dto.ID
	}
	var stale []string
	for _, id := range previous {
		if _, ok := keep[id]; !ok {
			stale = append(stale, s.recordKey(id))
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		pipe.Del(ctx, s.indexKey())
		for i, dto := range dtos {
			pipe.Set(ctx, s.recordKey(dto.ID), payloads[i], s.ttl)
		}
		if len(ids) > 0 {
			pipe.RPush(ctx, s.indexKey(), ids...)
			if s.ttl > 0 {
				pipe.Expire(ctx, s.indexKey(), s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save records to Redis: %w", err)
	}

	s.logger.Debug("records saved to Redis", "records", len(dtos), "stale", len(stale), "ttl", s.ttl)
	return nil
}

// Load reads every indexed record. Ids whose value has expired are skipped.
func (s *Store) Load(ctx context.Context) ([]entities.Snapshot, error) {
	ids, err := s.client.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err == redis.Nil || (err == nil && len(ids) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	dtos := make([]snapshot.RecordDTO, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			s.logger.Warn("indexed record missing from Redis", "id", ids[i])
			continue
		}
		var dto snapshot.RecordDTO
		if err := json.Unmarshal([]byte(str), &dto); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", ids[i], err)
		}
		dtos = append(dtos, dto)
	}

	return s.codec.FromDTOs(dtos)
}
