// Package redis provides a Redis-backed snapshot store, useful when
// several CI runners share one pre-built snapshot set instead of each
// carrying a snapshot directory.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/viewsnap/viewsnap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SnapshotStore on Redis. Artifacts live under
// prefixed string keys; a companion set tracks stored keys so List does
// not need SCAN.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix for artifacts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store connected to the given address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromURL creates a Redis store from a redis:// connection URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	parsed, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(parsed), opts...), nil
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "viewsnap:artifact:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(key domain.ArtifactKey) string {
	return s.prefix + string(key)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Write stores the artifact bytes and records the key in the index.
// Redis SET is atomic, so readers never observe partial content.
func (s *Store) Write(ctx context.Context, key domain.ArtifactKey, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), data, 0)
	pipe.SAdd(ctx, s.indexKey(), string(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write artifact %s to redis: %w", key, err)
	}
	return nil
}

// Read returns the stored bytes for the key.
func (s *Store) Read(ctx context.Context, key domain.ArtifactKey) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
		}
		return nil, fmt.Errorf("failed to read artifact %s from redis: %w", key, err)
	}
	return val, nil
}

// Delete removes the artifact and its index entry. Absent keys are fine.
func (s *Store) Delete(ctx context.Context, key domain.ArtifactKey) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.SRem(ctx, s.indexKey(), string(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete artifact %s from redis: %w", key, err)
	}
	return nil
}

// List returns every stored key from the index set.
func (s *Store) List(ctx context.Context) ([]domain.ArtifactKey, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts from redis: %w", err)
	}

	keys := make([]domain.ArtifactKey, 0, len(members))
	for _, member := range members {
		keys = append(keys, domain.ArtifactKey(member))
	}
	return keys, nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
